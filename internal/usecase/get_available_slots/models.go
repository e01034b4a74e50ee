package get_available_slots

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	TenantID  uuid.UUID // ID салона
	StaffID   uuid.UUID // ID сотрудника
	ServiceID uuid.UUID // ID услуги
	Date      time.Time // Дата (время игнорируется, часовой пояс задает даты слотов)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	StaffID         uuid.UUID // ID сотрудника
	ServiceID       uuid.UUID // ID услуги
	DurationMinutes int       // Длительность услуги
	Slots           []Slot    // Свободные слоты по возрастанию времени
}

// Slot модель свободного слота
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
}
