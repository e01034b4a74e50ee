package payments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("payments: appointment not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("payments: staff not found")

	// ErrInsufficientDeposit возвращается, когда сумма меньше депозита записи
	ErrInsufficientDeposit = errors.New("payments: amount is less than the required deposit")

	// ErrDepositAlreadyPaid возвращается при повторной оплате депозита подтвержденной записи
	ErrDepositAlreadyPaid = errors.New("payments: deposit already paid")

	// ErrDepositNotPaid возвращается при возврате депозита, который не был оплачен
	ErrDepositNotPaid = errors.New("payments: deposit was not paid")

	// ErrAlreadyRefunded возвращается при повторном возврате депозита
	ErrAlreadyRefunded = errors.New("payments: deposit already refunded")

	// ErrInvalidTransition возвращается, когда запись нельзя подтвердить из текущего статуса
	ErrInvalidTransition = errors.New("payments: invalid appointment status transition")

	// ErrConcurrentUpdate возвращается при конфликте параллельных транзакций
	ErrConcurrentUpdate = errors.New("payments: concurrent update, retry the request")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")
)
