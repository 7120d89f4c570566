package iostore

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewProjectID returns a lexically sortable project identifier.
func NewProjectID() string {
	return ulid.Make().String()
}

// NewChangeRequestID returns a lexically sortable change request identifier.
func NewChangeRequestID() string {
	return ulid.Make().String()
}

// NewRiskUID returns a random identifier for a user-entered risk.
func NewRiskUID() string {
	return uuid.NewString()
}

// NewDeadlineID returns a random identifier for a contract deadline.
func NewDeadlineID() string {
	return uuid.NewString()
}

// NewActionID returns a random identifier for a mitigation action.
func NewActionID() string {
	return uuid.NewString()
}
