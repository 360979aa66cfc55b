package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRow struct {
	submitterID *uuid.UUID
}

func TestCollectIDs_DistinctSet(t *testing.T) {
	// 50 rows submitted by 5 distinct users collapse to 5 lookup keys
	submitters := make([]uuid.UUID, 5)
	for i := range submitters {
		submitters[i] = uuid.New()
	}

	rows := make([]fakeRow, 50)
	for i := range rows {
		rows[i] = fakeRow{submitterID: &submitters[i%5]}
	}

	ids := CollectIDs(rows, func(r fakeRow) *uuid.UUID { return r.submitterID })

	assert.Len(t, ids, 5)
	assert.ElementsMatch(t, submitters, ids)
}

func TestCollectIDs_SkipsNilAndZero(t *testing.T) {
	real := uuid.New()
	zero := uuid.Nil

	rows := []fakeRow{
		{submitterID: nil},
		{submitterID: &zero},
		{submitterID: &real},
		{submitterID: &real},
	}

	ids := CollectIDs(rows, func(r fakeRow) *uuid.UUID { return r.submitterID })

	assert.Equal(t, []uuid.UUID{real}, ids)
}

func TestCollectIDs_Empty(t *testing.T) {
	ids := CollectIDs(nil, func(r fakeRow) *uuid.UUID { return r.submitterID })
	assert.Empty(t, ids)
}

func TestCollectIDs_PreservesFirstSeenOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rows := []fakeRow{
		{submitterID: &b},
		{submitterID: &a},
		{submitterID: &b},
		{submitterID: &c},
		{submitterID: &a},
	}

	ids := CollectIDs(rows, func(r fakeRow) *uuid.UUID { return r.submitterID })
	assert.Equal(t, []uuid.UUID{b, a, c}, ids)
}
