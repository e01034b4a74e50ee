package clients

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
)

const maxNameLength = 100

// validateCreateRequest проверяет и нормализует данные нового клиента
func (s *Service) validateCreateRequest(req *models.CreateClientRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if req.FirstName == "" || req.LastName == "" {
		return fmt.Errorf("%w: firstName and lastName are required", ErrInvalidInput)
	}
	if len(req.FirstName) > maxNameLength || len(req.LastName) > maxNameLength {
		return fmt.Errorf("%w: name is too long (max %d characters)", ErrInvalidInput, maxNameLength)
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			req.Email = nil
		} else {
			addr, err := mail.ParseAddress(email)
			if err != nil || addr.Address != email {
				return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
			}
			req.Email = &email
		}
	}

	if req.Phone != nil {
		phone, err := s.normalizePhone(*req.Phone)
		if err != nil {
			return err
		}
		req.Phone = phone
	}

	if err := validateMedicalNotes(req.MedicalNotes); err != nil {
		return err
	}

	allergies, err := normalizeAllergies(req.Allergies)
	if err != nil {
		return err
	}
	req.Allergies = allergies

	return nil
}

// normalizePhone приводит номер к E.164; номер без кода страны разбирается в регионе по умолчанию
func (s *Service) normalizePhone(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	num, err := phonenumbers.Parse(raw, s.phoneRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid phone %q: %v", ErrInvalidInput, raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("%w: invalid phone %q", ErrInvalidInput, raw)
	}

	e164 := phonenumbers.Format(num, phonenumbers.E164)
	return &e164, nil
}

func validateMedicalNotes(notes *string) error {
	if notes != nil && len(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: medicalNotes is too long (max %d characters)", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// normalizeAllergies убирает пробелы и дубликаты (без учета регистра), сохраняя порядок
func normalizeAllergies(allergies []string) ([]string, error) {
	if allergies == nil {
		return nil, nil
	}

	normalized := &domain.Client{Allergies: make([]string, 0, len(allergies))}
	for _, a := range allergies {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, fmt.Errorf("%w: allergy must not be empty", ErrInvalidInput)
		}
		if len(a) > domain.MaxAllergyLength {
			return nil, fmt.Errorf("%w: allergy is too long (max %d characters)", ErrInvalidInput, domain.MaxAllergyLength)
		}
		if normalized.HasAllergy(a) {
			continue
		}
		normalized.Allergies = append(normalized.Allergies, a)
	}

	return normalized.Allergies, nil
}
