package domain

import "time"

// AuthEventType labels entries in the audit trail.
type AuthEventType string

const (
	EventLogin  AuthEventType = "login"
	EventSignup AuthEventType = "signup"
)

// AuthEvent is one audit-trail entry, recorded asynchronously after a
// successful login or signup.
type AuthEvent struct {
	Type       AuthEventType `json:"type"`
	UserUUID   string        `json:"user_uuid"`
	Identifier string        `json:"identifier"`
	At         time.Time     `json:"at"`
}
