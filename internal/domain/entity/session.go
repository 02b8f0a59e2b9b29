package entity

import "time"

// Session is a server-side session registry entry, keyed by an opaque random
// token the entry itself never contains. Validity is CreatedAt plus the
// registry's TTL; revocation deletes the entry immediately.
type Session struct {
	UserID    string    // The user this session authenticates.
	Username  string    // Display identifier captured at login.
	CreatedAt time.Time // Start of the session's validity window.
}
