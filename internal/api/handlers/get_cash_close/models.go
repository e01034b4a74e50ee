package get_cash_close

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ParseDay разбирает день кассы в часовом поясе салона
// Пустая дата - сегодня; пустой tz - UTC
func ParseDay(dateStr, tz string, now time.Time) (time.Time, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, err
		}
		loc = l
	}

	if dateStr == "" {
		return now.In(loc), nil
	}
	return time.ParseInLocation(domain.DateFormat, dateStr, loc)
}
