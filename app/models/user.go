package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BeforeCreate normalises the user and fills in defaults.
func (u *User) BeforeCreate(now time.Time) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}

// Validate checks the user against its field rules.
func (u *User) Validate() error {
	return validate.Struct(u)
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
