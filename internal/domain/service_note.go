package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceNote is a staff note attached to an appointment (formula, products used, reactions)
type ServiceNote struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	StaffID       uuid.UUID
	Content       string
	CreatedAt     time.Time
}

// ServiceHistoryEntry is a completed appointment together with its notes
type ServiceHistoryEntry struct {
	Appointment *Appointment
	Notes       []*ServiceNote
}

// GroupNotesByAppointment indexes notes by appointment id, keeping their order
func GroupNotesByAppointment(notes []*ServiceNote) map[uuid.UUID][]*ServiceNote {
	grouped := make(map[uuid.UUID][]*ServiceNote, len(notes))
	for _, n := range notes {
		grouped[n.AppointmentID] = append(grouped[n.AppointmentID], n)
	}
	return grouped
}
