package create_appointment

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID  uuid.UUID  // ID салона
	ClientID  uuid.UUID  // ID клиента
	StaffID   uuid.UUID  // ID сотрудника
	ServiceID uuid.UUID  // ID услуги
	StartTime time.Time  // Время начала
	EndTime   *time.Time // Время окончания (опционально, по умолчанию start + длительность услуги)
	Notes     *string    // Заметки (опционально)
}
