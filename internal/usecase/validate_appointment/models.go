package validate_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Input параметры проверки записи
type Input struct {
	TenantID  uuid.UUID
	StaffID   uuid.UUID
	ServiceID uuid.UUID
	StartTime time.Time
	EndTime   time.Time // Нулевое значение: start + длительность услуги

	// ExcludeAppointmentID исключает саму запись из проверки занятости (при подтверждении)
	ExcludeAppointmentID *uuid.UUID
}

// Result результат проверки
// Staff и Service заполнены, если найдены (для расчета цены без повторных запросов)
type Result struct {
	Valid   bool
	Errors  []string
	Staff   *domain.Staff
	Service *domain.Service
	EndTime time.Time // Фактическое время окончания (с учетом длительности услуги)
}

// Err возвращает ValidationError, если проверка не пройдена
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return NewValidationError(r.Errors...)
}
