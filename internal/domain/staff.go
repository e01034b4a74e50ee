package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffLevel represents the seniority of a staff member
type StaffLevel string

const (
	LevelJunior StaffLevel = "JUNIOR"
	LevelSenior StaffLevel = "SENIOR"
	LevelMaster StaffLevel = "MASTER"
)

// ParseStaffLevel parses a level name (case-insensitive)
func ParseStaffLevel(s string) (StaffLevel, error) {
	level := StaffLevel(strings.ToUpper(strings.TrimSpace(s)))
	switch level {
	case LevelJunior, LevelSenior, LevelMaster:
		return level, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Staff represents a salon employee who performs services
type Staff struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	FirstName      string
	LastName       string
	Level          StaffLevel
	Skills         []string        // Service categories the staff member can perform
	CommissionRate decimal.Decimal // Percentage 0-100
	IsActive       bool
}

// HasSkill returns true if the staff member has the given category as a skill
func (s *Staff) HasSkill(category string) bool {
	for _, skill := range s.Skills {
		if skill == category {
			return true
		}
	}
	return false
}

// FullName returns "First Last"
func (s *Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
