package model

import "time"

// Role identifies what a user may do in the assessment workflow.
type Role string

const (
	RoleClient    Role = "client"
	RoleLead      Role = "lead"
	RoleSuperuser Role = "superuser"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleLead, RoleSuperuser:
		return true
	}
	return false
}

// User is an account that can own products (client), review them (lead),
// or administer the system (superuser).
type User struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Username     string     `json:"username" bson:"username"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"passwordHash"`
	Role         Role       `json:"role" bson:"role"`
	Organization string     `json:"organization,omitempty" bson:"organization,omitempty"`
	FirstName    string     `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName     string     `json:"lastName,omitempty" bson:"lastName,omitempty"`
	IsActive     bool       `json:"isActive" bson:"isActive"`
	FirstLogin   bool       `json:"firstLogin" bson:"firstLogin"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// DisplayName returns "First Last" or falls back to the username.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
