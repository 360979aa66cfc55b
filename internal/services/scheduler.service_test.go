package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopJob struct {
	name string
}

func (j *noopJob) Name() string                    { return j.name }
func (j *noopJob) Execute(_ context.Context) error { return nil }
func (j *noopJob) Schedule() Schedule              { return DailyMorning }

func TestSchedulerStartsRegisteredJobs(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&noopJob{name: "reminder scan"}))
	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerWithoutJobsStaysIdle(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&noopJob{name: "reminder scan"}))
	require.NoError(t, scheduler.Start(context.Background()))
	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
}
