package check_in_client

import "time"

// CheckInRequest HTTP request model
type CheckInRequest struct {
	QRCode string `json:"qrCode"`
}

// ParseLocation разбирает часовой пояс салона из параметра tz; пустой tz - UTC
func ParseLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}
