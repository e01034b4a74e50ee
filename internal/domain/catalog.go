package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service represents a bookable service of a salon's catalog
// Tier prices override BasePrice for staff of the matching level
type Service struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            string
	Category        *string // Skill required from the staff member; nil = any staff
	DurationMinutes int
	BasePrice       decimal.Decimal
	JuniorPrice     decimal.NullDecimal
	SeniorPrice     decimal.NullDecimal
	MasterPrice     decimal.NullDecimal
	IsActive        bool
}

// Duration returns the service duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// RequiresSkill returns the required category and whether there is one
func (s *Service) RequiresSkill() (string, bool) {
	if s.Category == nil || *s.Category == "" {
		return "", false
	}
	return *s.Category, true
}
