package uid

import "github.com/google/uuid"

// NewRequestID tags one move computation across logs, stats and events.
func NewRequestID() string {
	return uuid.NewString()
}
