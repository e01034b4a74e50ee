package create_appointment

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиент не найден в салоне
	ErrClientNotFound = errors.New("create_appointment: client not found")

	// ErrConcurrentUpdate возвращается при конфликте сериализуемых транзакций (можно повторить запрос)
	ErrConcurrentUpdate = errors.New("create_appointment: concurrent update, retry the request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
