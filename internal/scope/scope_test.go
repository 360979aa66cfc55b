package scope

import (
	"testing"

	"fleetdeck/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func rolePtr(r models.Role) *models.Role { return &r }

func TestResolve_NoImpersonation(t *testing.T) {
	userID := uuid.New()
	yachtID := uuid.New()

	testCases := []struct {
		name      string
		session   Session
		fleetWide bool
		role      models.Role
	}{
		{
			name:      "master sees fleet",
			session:   Session{UserID: userID, ActualRole: models.RoleMaster},
			fleetWide: true,
			role:      models.RoleMaster,
		},
		{
			name:      "staff sees fleet",
			session:   Session{UserID: userID, ActualRole: models.RoleStaff},
			fleetWide: true,
			role:      models.RoleStaff,
		},
		{
			name:      "mechanic sees fleet",
			session:   Session{UserID: userID, ActualRole: models.RoleMechanic},
			fleetWide: true,
			role:      models.RoleMechanic,
		},
		{
			name:      "owner is yacht scoped",
			session:   Session{UserID: userID, ActualRole: models.RoleOwner, ActualYachtID: &yachtID},
			fleetWide: false,
			role:      models.RoleOwner,
		},
		{
			name:      "manager is yacht scoped",
			session:   Session{UserID: userID, ActualRole: models.RoleManager, ActualYachtID: &yachtID},
			fleetWide: false,
			role:      models.RoleManager,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scope := Resolve(tc.session)
			assert.Equal(t, tc.fleetWide, scope.FleetWide())
			assert.Equal(t, tc.role, scope.EffectiveRole)
			assert.Equal(t, userID, scope.UserID)
		})
	}
}

func TestResolve_YachtImpersonationNarrows(t *testing.T) {
	userID := uuid.New()
	targetYacht := uuid.New()

	// A fleet-wide role with no impersonation is unfiltered; pinning a yacht
	// must always narrow to that yacht, never widen.
	for _, role := range []models.Role{models.RoleMaster, models.RoleStaff, models.RoleMechanic} {
		unscoped := Resolve(Session{UserID: userID, ActualRole: role})
		assert.True(t, unscoped.FleetWide(), "role %s should be fleet-wide", role)

		pinned := Resolve(Session{
			UserID:              userID,
			ActualRole:          role,
			ImpersonatedYachtID: &targetYacht,
		})
		assert.False(t, pinned.FleetWide(), "role %s with pinned yacht must be narrowed", role)
		assert.True(t, pinned.YachtScoped())
		assert.Equal(t, &targetYacht, pinned.EffectiveYachtID)
	}
}

func TestResolve_YachtImpersonationIgnoredForScopedRoles(t *testing.T) {
	userID := uuid.New()
	homeYacht := uuid.New()
	otherYacht := uuid.New()

	scope := Resolve(Session{
		UserID:              userID,
		ActualRole:          models.RoleOwner,
		ActualYachtID:       &homeYacht,
		ImpersonatedYachtID: &otherYacht,
	})

	// An owner cannot hop yachts by sending the impersonation header
	assert.Equal(t, &homeYacht, scope.EffectiveYachtID)
}

func TestResolve_RoleImpersonationMasterOnly(t *testing.T) {
	userID := uuid.New()

	masterAsOwner := Resolve(Session{
		UserID:           userID,
		ActualRole:       models.RoleMaster,
		ImpersonatedRole: rolePtr(models.RoleOwner),
	})
	assert.Equal(t, models.RoleOwner, masterAsOwner.EffectiveRole)
	assert.True(t, masterAsOwner.OwnerScoped())

	staffAsMaster := Resolve(Session{
		UserID:           userID,
		ActualRole:       models.RoleStaff,
		ImpersonatedRole: rolePtr(models.RoleMaster),
	})
	assert.Equal(t, models.RoleStaff, staffAsMaster.EffectiveRole)
}

func TestScope_OwnerScoped(t *testing.T) {
	yachtID := uuid.New()

	owner := Resolve(Session{UserID: uuid.New(), ActualRole: models.RoleOwner, ActualYachtID: &yachtID})
	manager := Resolve(Session{UserID: uuid.New(), ActualRole: models.RoleManager, ActualYachtID: &yachtID})

	assert.True(t, owner.OwnerScoped())
	assert.False(t, manager.OwnerScoped())
}

func TestScope_Permissions(t *testing.T) {
	testCases := []struct {
		role           models.Role
		canManage      bool
		canResolve     bool
	}{
		{models.RoleMaster, true, true},
		{models.RoleStaff, true, true},
		{models.RoleMechanic, false, true},
		{models.RoleManager, false, false},
		{models.RoleOwner, false, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			scope := Resolve(Session{UserID: uuid.New(), ActualRole: tc.role})
			assert.Equal(t, tc.canManage, scope.CanManageFleet())
			assert.Equal(t, tc.canResolve, scope.CanResolveRepairs())
		})
	}
}
