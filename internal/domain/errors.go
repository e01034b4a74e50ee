package domain

import "errors"

var (
	// ErrUnknownStatus is returned when parsing an unknown appointment status
	ErrUnknownStatus = errors.New("domain: unknown appointment status")

	// ErrUnknownLevel is returned when parsing an unknown staff level
	ErrUnknownLevel = errors.New("domain: unknown staff level")

	// ErrUnknownTier is returned when parsing an unknown loyalty tier
	ErrUnknownTier = errors.New("domain: unknown loyalty tier")

	// ErrUnknownPaymentType is returned when parsing an unknown payment type
	ErrUnknownPaymentType = errors.New("domain: unknown payment type")
)
