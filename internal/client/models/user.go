package models

import (
	"strings"
	"time"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// UserRecord is a directory entry. Status and Role are display
// classifications derived from ID, not data sent by the server.
type UserRecord struct {
	ID        int        `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	AvatarURL string     `json:"avatar"`
	Job       string     `json:"job,omitempty"`
	Status    UserStatus `json:"status"`
	Role      UserRole   `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Local is set when ID was generated on the client.
	Local bool `json:"local,omitempty"`
}

// FullName returns "First Last" without stray spaces.
func (u UserRecord) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// StatusForID: even ids are active.
func StatusForID(id int) UserStatus {
	if id%2 == 0 {
		return StatusActive
	}
	return StatusInactive
}

// RoleForID: multiples of three are admins.
func RoleForID(id int) UserRole {
	if id%3 == 0 {
		return RoleAdmin
	}
	return RoleUser
}

// Classify returns u with Status and Role derived from its ID.
func Classify(u UserRecord) UserRecord {
	u.Status = StatusForID(u.ID)
	u.Role = RoleForID(u.ID)
	return u
}

// SplitName splits a display name on its first space.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

// NewUser is the input of a create request. Validation is the caller's job.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Job      string
}

// UserPatch is the input of an update request.
type UserPatch struct {
	Name string
	Job  string
}
