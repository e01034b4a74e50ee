package list_services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ServiceResponse услуга салона
// Цены по уровню мастера указываются, только если заданы
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        *string   `json:"category,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	BasePrice       string    `json:"basePrice"`
	JuniorPrice     *string   `json:"juniorPrice,omitempty"`
	SeniorPrice     *string   `json:"seniorPrice,omitempty"`
	MasterPrice     *string   `json:"masterPrice,omitempty"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainServices конвертирует услуги в DTO
func FromDomainServices(services []*domain.Service) *ServiceListResponse {
	result := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		result.Services = append(result.Services, ServiceResponse{
			ID:              s.ID,
			Name:            s.Name,
			Category:        s.Category,
			DurationMinutes: s.DurationMinutes,
			BasePrice:       s.BasePrice.StringFixed(2),
			JuniorPrice:     priceString(s.JuniorPrice),
			SeniorPrice:     priceString(s.SeniorPrice),
			MasterPrice:     priceString(s.MasterPrice),
		})
	}
	return result
}

func priceString(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}
