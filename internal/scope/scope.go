package scope

import (
	"fleetdeck/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session carries the authenticated identity plus any staff impersonation
// overlay. It is built per request by middleware and never stored; the
// effective scope below is a pure derivation from it.
type Session struct {
	UserID              uuid.UUID
	ActualRole          models.Role
	ActualYachtID       *uuid.UUID
	ImpersonatedRole    *models.Role
	ImpersonatedYachtID *uuid.UUID
}

// Scope is the derived (role, yacht-or-nil, user) triple applied to every
// query. It narrows, never widens: an active yacht impersonation forces
// yacht filtering even for roles that normally see the whole fleet.
type Scope struct {
	UserID           uuid.UUID
	EffectiveRole    models.Role
	EffectiveYachtID *uuid.UUID
	yachtForced      bool
}

// Resolve derives the effective scope from a session. Pure, no side effects.
func Resolve(s Session) Scope {
	scope := Scope{
		UserID:           s.UserID,
		EffectiveRole:    s.ActualRole,
		EffectiveYachtID: s.ActualYachtID,
	}

	// Only the master role may assume another role
	if s.ImpersonatedRole != nil && s.ActualRole == models.RoleMaster {
		scope.EffectiveRole = *s.ImpersonatedRole
	}

	// Only fleet-wide roles may pin the view to another yacht
	if s.ImpersonatedYachtID != nil && s.ActualRole.FleetWide() {
		scope.EffectiveYachtID = s.ImpersonatedYachtID
		scope.yachtForced = true
	}

	return scope
}

// FleetWide reports whether the scope sees all yachts unfiltered.
func (s Scope) FleetWide() bool {
	return s.EffectiveRole.FleetWide() && !s.yachtForced
}

// YachtScoped reports whether queries must filter on EffectiveYachtID.
func (s Scope) YachtScoped() bool {
	return !s.FleetWide()
}

// OwnerScoped reports whether queries over owner-submitted rows must
// additionally filter on the session user's id.
func (s Scope) OwnerScoped() bool {
	return s.EffectiveRole == models.RoleOwner
}

// ApplyYacht narrows tx to rows whose yacht column matches the effective
// yacht. Fleet-wide scopes pass through unfiltered. A yacht-scoped session
// with no yacht at all matches nothing rather than everything.
func (s Scope) ApplyYacht(tx *gorm.DB, column string) *gorm.DB {
	if s.FleetWide() {
		return tx
	}
	if s.EffectiveYachtID == nil {
		return tx.Where("1 = 0")
	}
	return tx.Where(column+" = ?", *s.EffectiveYachtID)
}

// ApplySubmitter narrows tx to rows submitted by the session user when the
// effective role is owner. Managers see their whole yacht's rows.
func (s Scope) ApplySubmitter(tx *gorm.DB, column string) *gorm.DB {
	if !s.OwnerScoped() {
		return tx
	}
	return tx.Where(column+" = ?", s.UserID)
}

// Bookings applies the standard booking predicate: yacht narrowing plus the
// owner's own-rows restriction.
func (s Scope) Bookings(tx *gorm.DB) *gorm.DB {
	return s.ApplySubmitter(s.ApplyYacht(tx, "yacht_id"), "user_id")
}

// RepairRequests applies the repair-request predicate. Walk-in requests
// (nil yacht) are visible only to fleet-wide scopes.
func (s Scope) RepairRequests(tx *gorm.DB) *gorm.DB {
	return s.ApplySubmitter(s.ApplyYacht(tx, "yacht_id"), "submitted_by_id")
}

// ChatMessages narrows a yacht chat thread; all members of a yacht see the
// whole thread, so no submitter restriction applies.
func (s Scope) ChatMessages(tx *gorm.DB) *gorm.DB {
	return s.ApplyYacht(tx, "yacht_id")
}

// Notifications narrows to rows addressed to the session user, plus
// admin-wide rows (nil recipient) for fleet-wide roles.
func (s Scope) Notifications(tx *gorm.DB) *gorm.DB {
	if s.EffectiveRole.FleetWide() {
		return tx.Where("recipient_id = ? OR recipient_id IS NULL", s.UserID)
	}
	return tx.Where("recipient_id = ?", s.UserID)
}

// CanManageFleet reports whether the scope may mutate fleet-level records
// (yachts, users, appointments).
func (s Scope) CanManageFleet() bool {
	return s.EffectiveRole == models.RoleMaster || s.EffectiveRole == models.RoleStaff
}

// CanResolveRepairs reports whether the scope may approve, reject, or
// complete repair requests.
func (s Scope) CanResolveRepairs() bool {
	switch s.EffectiveRole {
	case models.RoleMaster, models.RoleStaff, models.RoleMechanic:
		return true
	}
	return false
}
