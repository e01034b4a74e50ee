package add_service_note

import "github.com/google/uuid"

// AddServiceNoteRequest HTTP request model
type AddServiceNoteRequest struct {
	StaffID *uuid.UUID `json:"staffId,omitempty"`
	Content string     `json:"content"`
}
