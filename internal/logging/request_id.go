package logging

import "github.com/google/uuid"

// GenerateRequestID returns a fresh per-connection identifier used to
// correlate log lines for a single connection's lifetime.
func GenerateRequestID() string {
	return uuid.NewString()
}
