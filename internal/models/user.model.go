package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleMechanic Role = "mechanic"
	RoleMaster   Role = "master"
)

// FleetWide reports whether the role may see rows for every yacht when no
// yacht impersonation is active.
func (r Role) FleetWide() bool {
	switch r {
	case RoleMaster, RoleStaff, RoleMechanic:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleStaff, RoleMechanic, RoleMaster:
		return true
	}
	return false
}

type User struct {
	BaseUUIDModel
	FirstName    string     `gorm:"type:text"                          json:"firstName"`
	LastName     string     `gorm:"type:text"                          json:"lastName"`
	FullName     string     `gorm:"type:text"                          json:"fullName"`
	Email        string     `gorm:"type:text;uniqueIndex;not null"     json:"email"`
	Phone        *string    `gorm:"type:text"                          json:"phone,omitempty"`
	PasswordHash string     `gorm:"type:text;not null"                 json:"-"`
	Role         Role       `gorm:"type:text;not null;default:'owner'" json:"role"`
	YachtID      *uuid.UUID `gorm:"type:uuid;index:idx_users_yacht"    json:"yachtId,omitempty"`
	IsActive     bool       `gorm:"type:bool;default:true"             json:"isActive"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"                     json:"lastLoginAt,omitempty"`

	Yacht *Yacht `gorm:"foreignKey:YachtID" json:"yacht,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	if !u.Role.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	return nil
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Role        Role       `json:"role"`
	YachtID     *uuid.UUID `json:"yachtId,omitempty"`
	YachtName   string     `json:"yachtName,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	profile := UserProfile{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		YachtID:     u.YachtID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
	if u.Yacht != nil {
		profile.YachtName = u.Yacht.Name
	}
	return profile
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Password  string     `json:"password"`
	Role      Role       `json:"role"`
	YachtID   *uuid.UUID `json:"yachtId,omitempty"`
}
