package entities

// Session is the opaque key/value bag describing the active login. It is
// ephemeral and never part of import data, but the migration path reads
// it to discover the current user.
type Session map[string]any

// SessionUserIDKey is the session key holding the active user's id.
const SessionUserIDKey = "userId"

// UserID returns the active user's id, or "" when no session is active.
func (s Session) UserID() string {
	if s == nil {
		return ""
	}
	id, _ := s[SessionUserIDKey].(string)
	return id
}
