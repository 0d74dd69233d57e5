package results

import (
	"time"

	"github.com/google/uuid"
)

// Run is a completed comparison session handed to reporting.
type Run struct {
	SessionID       uuid.UUID
	StartedAt       time.Time
	Rounds          int
	PlatformVersion string // empty when the default platform was used
	Branches        []string
	Table           *Table
}
