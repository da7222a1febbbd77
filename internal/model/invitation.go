package model

import "time"

// Invitation is a single-use, expiring token that lets a new user register
// with a pre-assigned role.
type Invitation struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Token        string     `json:"token" bson:"token"`
	Email        string     `json:"email" bson:"email"`
	Role         Role       `json:"role" bson:"role"`
	Organization string     `json:"organization,omitempty" bson:"organization,omitempty"`
	InvitedBy    string     `json:"invitedBy" bson:"invitedBy"`
	IsUsed       bool       `json:"isUsed" bson:"isUsed"`
	ExpiresAt    time.Time  `json:"expiresAt" bson:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UsedAt       *time.Time `json:"usedAt,omitempty" bson:"usedAt,omitempty"`
}

// Expired reports whether the invitation can no longer be accepted.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
