package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AlertSeverity represents the importance of a client alert
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "HIGH"
	SeverityMedium AlertSeverity = "MEDIUM"
)

// Alert types
const (
	AlertAllergies    = "ALLERGIES"
	AlertMedicalNotes = "MEDICAL_NOTES"
)

// Client represents a salon customer
type Client struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	QRCode        string // Opaque token printed on the client's card
	Email         *string
	Phone         *string // E.164
	FirstName     string
	LastName      string
	MedicalNotes  *string
	Allergies     []string
	LoyaltyPoints int
	LoyaltyTier   LoyaltyTier
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns "First Last"
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasAllergy returns true if the allergy is recorded (case-insensitive)
func (c *Client) HasAllergy(allergy string) bool {
	for _, a := range c.Allergies {
		if strings.EqualFold(a, allergy) {
			return true
		}
	}
	return false
}

// ClientAlert is a warning shown to staff before serving the client
type ClientAlert struct {
	Type     string
	Message  string
	Severity AlertSeverity
}

// Alerts returns the client's medical alerts
func (c *Client) Alerts() []ClientAlert {
	alerts := make([]ClientAlert, 0, 2)
	if len(c.Allergies) > 0 {
		alerts = append(alerts, ClientAlert{
			Type:     AlertAllergies,
			Message:  "Allergies: " + strings.Join(c.Allergies, ", "),
			Severity: SeverityHigh,
		})
	}
	if c.MedicalNotes != nil && strings.TrimSpace(*c.MedicalNotes) != "" {
		alerts = append(alerts, ClientAlert{
			Type:     AlertMedicalNotes,
			Message:  *c.MedicalNotes,
			Severity: SeverityMedium,
		})
	}
	return alerts
}

// ClientFilter filters clients of a tenant
type ClientFilter struct {
	TenantID uuid.UUID // Required
	Search   *string   // Matches first name, last name, email or phone
	Tier     *LoyaltyTier
	Limit    uint64
	Offset   uint64
}
