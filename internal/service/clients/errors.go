package clients

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("clients: client not found")

	// ErrAppointmentNotFound возвращается, когда запись для заметки не найдена
	ErrAppointmentNotFound = errors.New("clients: appointment not found")

	// ErrStaffNotFound возвращается, когда автор заметки не найден в салоне
	ErrStaffNotFound = errors.New("clients: staff not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("clients: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("clients: internal error")
)
