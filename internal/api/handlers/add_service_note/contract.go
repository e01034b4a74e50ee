package add_service_note

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/clients/models"
)

type ClientService interface {
	AddServiceNote(ctx context.Context, req *models.AddServiceNoteRequest) (*models.ServiceNoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
