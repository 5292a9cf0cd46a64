package models

import "time"

type EventKind string

const (
	EventLogin                EventKind = "LOGIN"
	EventFailedLogin          EventKind = "FAILED_LOGIN"
	EventPasswordChange       EventKind = "PASSWORD_CHANGE"
	EventFailedPasswordChange EventKind = "FAILED_PASSWORD_CHANGE"
)

// SecurityEvent is an append-only audit record. Application code never
// updates or deletes rows of this type.
type SecurityEvent struct {
	ID        string
	AdminID   *string
	Kind      EventKind
	Detail    string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
