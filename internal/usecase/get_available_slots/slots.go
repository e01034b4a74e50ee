package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// generateCandidateStarts генерирует начала слотов от открытия с шагом step,
// пока услуга длительностью duration успевает закончиться до закрытия.
// Начала раньше now пропускаются.
func generateCandidateStarts(open, close time.Time, step, duration time.Duration, now time.Time) []time.Time {
	starts := make([]time.Time, 0)
	if step <= 0 || duration <= 0 {
		return starts
	}

	for start := open; !start.Add(duration).After(close); start = start.Add(step) {
		if start.Before(now) {
			continue
		}
		starts = append(starts, start)
	}

	return starts
}

// filterAvailable оставляет только слоты, не конфликтующие с занятыми интервалами с учетом буфера
// Граничные случаи (слот заканчивается ровно на краю буфера) конфликтом не считаются
func filterAvailable(starts []time.Time, duration time.Duration, busy []domain.Interval, buffer time.Duration) []Slot {
	slots := make([]Slot, 0, len(starts))

	for _, start := range starts {
		candidate := domain.Interval{Start: start, End: start.Add(duration)}
		if domain.IsSlotAvailable(candidate, busy, buffer) {
			slots = append(slots, Slot{StartTime: candidate.Start, EndTime: candidate.End})
		}
	}

	return slots
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowIn := now.In(date.Location())
	nowOnly := time.Date(nowIn.Year(), nowIn.Month(), nowIn.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.Before(nowOnly)
}
