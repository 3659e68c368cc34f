package model

import (
	"errors"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleLab        Role = "lab"
	RolePharmacist Role = "pharmacist"
)

var ErrUnknownRole = errors.New("unknown staff role")

// ParseRole validates a role string coming from the platform.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RoleLab, RolePharmacist:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Session is the staff member's credential as held by the console:
// set at login, read on every outbound request, cleared at logout.
// The clients only ever read it.
type Session struct {
	Token     string    `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
