package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. It is assigned once at
// registration and never changed through the profile update path.
type Role string

const (
	RoleLearner       Role = "learner"
	RoleInstructor    Role = "instructor"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleAdministrator:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string
	LastName     string
	Profile      Profile `gorm:"constraint:OnDelete:CASCADE"`
}

// Profile carries the role and biographical fields. Every User has exactly
// one Profile, created in the same transaction as the User itself.
type Profile struct {
	gorm.Model
	UserID    uint `gorm:"uniqueIndex;not null"`
	Role      Role `gorm:"default:learner"`
	Phone     string
	BirthDate *time.Time
	PhotoURL  string
	Biography string
}

// FullName returns "FirstName LastName", falling back to the username when
// both name fields are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// NormalizeName collapses internal whitespace runs to single spaces, trims
// and lowercases, so "  Iyed   Iyed " and "IYED IYED" both become
// "iyed iyed". Used by the ownership reconciliation lookup.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
