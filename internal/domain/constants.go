package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Default booking policy values (used when neither config nor tenant override them)
const (
	DefaultBufferTimeMinutes = 15
	DefaultSlotStepMinutes   = 15
	DefaultBronzeThreshold   = 0
	DefaultSilverThreshold   = 500
	DefaultGoldThreshold     = 1000
)

// DefaultDepositPercentage is the deposit share of the total price
var DefaultDepositPercentage = decimal.NewFromInt(25)

// Business validation constants
const (
	MaxPercentage        = 100
	MaxBufferTimeMinutes = 240
	MaxSlotStepMinutes   = 240
	MaxNotesLength       = 1000
	MaxAllergyLength     = 100

	// MaxLoyaltyPoints is the largest balance the loyalty_points INTEGER column holds
	MaxLoyaltyPoints = math.MaxInt32
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// Validation failure reasons returned to callers verbatim
const (
	ReasonStaffNotValid        = "staff not valid"
	ReasonServiceNotValid      = "service not valid"
	ReasonStaffLacksSpecialty  = "staff lacks specialty"
	ReasonScheduleNotAvailable = "schedule not available"
	ReasonInvalidTimeRange     = "end time must be after start time"
)
