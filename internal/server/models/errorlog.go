package models

import "time"

// ErrorLog is a structured record of an unhandled failure, persisted for
// operator diagnosis. TraceID is echoed to the client so a report can be
// correlated without leaking internals.
type ErrorLog struct {
	ID         int64
	TraceID    string
	Type       string
	Message    string
	Source     string
	StackTrace string
	Timestamp  time.Time
}
