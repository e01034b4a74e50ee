package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCheckIn   AppointmentStatus = "CHECK_IN"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// transitions lists the statuses reachable from each status
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckIn, StatusCancelled},
	StatusCheckIn:   {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// BlockingStatuses are the statuses that occupy the staff member's schedule
var BlockingStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusCheckIn,
}

// ParseAppointmentStatus parses a status name (case-insensitive)
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal returns true if no transition leaves this status
func (s AppointmentStatus) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransitionTo returns true if next is reachable from s in one step
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsBlocking returns true if an appointment in this status occupies the schedule
func (s AppointmentStatus) IsBlocking() bool {
	return s == StatusConfirmed || s == StatusCheckIn
}

// Appointment represents a booked service for a client with a staff member
type Appointment struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ClientID  uuid.UUID
	StaffID   uuid.UUID
	ServiceID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	DepositPaid   bool
	DepositAmount decimal.Decimal
	TotalPrice    decimal.Decimal
	Notes         *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Interval returns the time range occupied by the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// IsTerminal returns true if the appointment can no longer change
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// AppointmentFilter filters appointments of a tenant
type AppointmentFilter struct {
	TenantID  uuid.UUID           // Required
	StaffID   *uuid.UUID          // Optional
	ClientID  *uuid.UUID          // Optional
	Statuses  []AppointmentStatus // Empty means any status
	From      *time.Time          // Appointments ending after From
	To        *time.Time          // Appointments starting before To
	ExcludeID *uuid.UUID          // Skip this appointment (re-validation of itself)
}
