package entities

import "time"

// Audit actions.
const (
	ActionStatusChanged = "status_changed"
	ActionDeleted       = "deleted"
)

// AuditLogEntry is an immutable record of a privileged workflow action.
// Entries survive deletion of the application they describe.
type AuditLogEntry struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	ApplicationID   string    `json:"application_id"`
	ApplicationName string    `json:"application_name"`
	PerformedBy     string    `json:"performed_by"`
	Comment         string    `json:"comment"`
	OldStatus       string    `json:"old_status,omitempty"`
	NewStatus       string    `json:"new_status,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// IntakeSettings controls whether new submissions are accepted.
type IntakeSettings struct {
	ApplicationsEnabled bool      `json:"applications_enabled"`
	UpdatedBy           string    `json:"updated_by,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}
