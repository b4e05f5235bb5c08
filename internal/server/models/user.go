package models

import "time"

// User is the persisted account record. PasswordHash is never serialized in
// outbound responses; RefreshToken is the single active session slot for the
// user (empty string means no active session).
type User struct {
	ID           int64
	Nick         string
	Email        string
	PasswordHash string
	RefreshToken string
	ExpiryTime   time.Time
	RememberMe   bool
	ProfilePhoto string
	CreatedAt    time.Time
}
