package loyalty

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("loyalty: client not found")

	// ErrInsufficientPoints возвращается при списании большего числа баллов, чем есть у клиента
	ErrInsufficientPoints = errors.New("loyalty: insufficient points")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("loyalty: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("loyalty: internal error")
)
