package agent

import "github.com/google/uuid"

// NewSessionID returns a fresh conversation grouping key. The remote
// service treats it as opaque; it is not an ordering or security boundary.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}
