package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// BookingPolicy is the effective policy passed into every pricing and validation call
type BookingPolicy struct {
	DepositPercentage decimal.Decimal
	BufferTimeMinutes int
	SlotStepMinutes   int
	LoyaltyThresholds LoyaltyThresholds
}

// DefaultBookingPolicy returns the built-in policy
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		DepositPercentage: DefaultDepositPercentage,
		BufferTimeMinutes: DefaultBufferTimeMinutes,
		SlotStepMinutes:   DefaultSlotStepMinutes,
		LoyaltyThresholds: DefaultLoyaltyThresholds(),
	}
}

// Buffer returns the buffer as a duration
func (p BookingPolicy) Buffer() time.Duration {
	return time.Duration(p.BufferTimeMinutes) * time.Minute
}

// SlotStep returns the slot step as a duration
func (p BookingPolicy) SlotStep() time.Duration {
	return time.Duration(p.SlotStepMinutes) * time.Minute
}

// TenantPolicy represents the per-salon overrides stored with the tenant.
// A nil field means "use the default"; an explicit zero is honoured.
type TenantPolicy struct {
	TenantID          uuid.UUID
	Name              string
	DepositPercentage decimal.NullDecimal
	BufferTimeMinutes *int
	SlotStepMinutes   *int
	BronzeThreshold   *int
	SilverThreshold   *int
	GoldThreshold     *int
	BusinessHours     []BusinessHours
	UpdatedAt         time.Time
}

// Resolve merges the tenant overrides onto defaults. A nil policy yields defaults.
func (t *TenantPolicy) Resolve(defaults BookingPolicy) BookingPolicy {
	p := defaults
	if t == nil {
		return p
	}
	if t.DepositPercentage.Valid {
		p.DepositPercentage = t.DepositPercentage.Decimal
	}
	if t.BufferTimeMinutes != nil {
		p.BufferTimeMinutes = *t.BufferTimeMinutes
	}
	if t.SlotStepMinutes != nil {
		p.SlotStepMinutes = *t.SlotStepMinutes
	}
	if t.BronzeThreshold != nil {
		p.LoyaltyThresholds.Bronze = *t.BronzeThreshold
	}
	if t.SilverThreshold != nil {
		p.LoyaltyThresholds.Silver = *t.SilverThreshold
	}
	if t.GoldThreshold != nil {
		p.LoyaltyThresholds.Gold = *t.GoldThreshold
	}
	return p
}

// HoursFor returns the business hours of the given weekday
func (t *TenantPolicy) HoursFor(day time.Weekday) (BusinessHours, bool) {
	if t == nil {
		return BusinessHours{}, false
	}
	for _, h := range t.BusinessHours {
		if h.DayOfWeek == day {
			return h, true
		}
	}
	return BusinessHours{}, false
}

// BusinessHours represents the opening hours of a salon on one weekday
type BusinessHours struct {
	DayOfWeek time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool
}

// IsOpen returns true if the salon works on that day
func (h BusinessHours) IsOpen() bool {
	return !h.IsClosed && !h.OpenTime.IsZero() && !h.CloseTime.IsZero() && h.OpenTime.IsBefore(h.CloseTime)
}
