package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType represents the kind of a payment record
type PaymentType string

const (
	PaymentDeposit       PaymentType = "DEPOSIT"
	PaymentFull          PaymentType = "FULL_PAYMENT"
	PaymentPenaltyRefund PaymentType = "PENALTY_REFUND"
)

// ParsePaymentType parses a payment type name (case-insensitive)
func ParsePaymentType(s string) (PaymentType, error) {
	t := PaymentType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case PaymentDeposit, PaymentFull, PaymentPenaltyRefund:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentType, s)
}

// PaymentStatus represents the state of a payment record
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// Payment is a bookkeeping record of money received or returned.
// Refunds are stored with a negative amount.
type Payment struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ClientID      uuid.UUID
	AppointmentID *uuid.UUID
	Amount        decimal.Decimal
	Type          PaymentType
	Status        PaymentStatus
	ExternalRef   *string // Reference in the payment gateway
	CreatedAt     time.Time
}

// PaymentFilter filters payments of a tenant
type PaymentFilter struct {
	TenantID      uuid.UUID // Required
	ClientID      *uuid.UUID
	AppointmentID *uuid.UUID
	Type          *PaymentType
	From          *time.Time // Inclusive
	To            *time.Time // Exclusive
}
