package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	apptModels "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// Request модели

// RecordDepositRequest запрос на оплату депозита записи
// Amount не указан - берется депозит записи
type RecordDepositRequest struct {
	TenantID      uuid.UUID        `json:"-"`
	AppointmentID uuid.UUID        `json:"-"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	ExternalRef   *string          `json:"externalRef,omitempty"`
}

// RecordFullPaymentRequest запрос на регистрацию полной оплаты
// ClientID можно не указывать, если указана запись
type RecordFullPaymentRequest struct {
	TenantID      uuid.UUID       `json:"-"`
	ClientID      *uuid.UUID      `json:"clientId,omitempty"`
	AppointmentID *uuid.UUID      `json:"appointmentId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ExternalRef   *string         `json:"externalRef,omitempty"`
}

// Response модели

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	ClientID      uuid.UUID  `json:"clientId"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
	Amount        string     `json:"amount"` // "-15.00" для возврата
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	ExternalRef   *string    `json:"externalRef,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PaymentListResponse ответ со списком платежей
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// DepositResponse результат оплаты депозита: платеж и подтвержденная запись
type DepositResponse struct {
	Payment     PaymentResponse                `json:"payment"`
	Appointment apptModels.AppointmentResponse `json:"appointment"`
}

// CashCloseSummary итоги дня
type CashCloseSummary struct {
	TotalDeposits     string         `json:"totalDeposits"`
	TotalFullPayments string         `json:"totalFullPayments"`
	TotalRefunds      string         `json:"totalRefunds"` // Сумма возвратов по модулю
	NetTotal          string         `json:"netTotal"`
	TransactionCount  int            `json:"transactionCount"`
	PaymentsByType    map[string]int `json:"paymentsByType"`
}

// CashCloseResponse закрытие кассы за день
type CashCloseResponse struct {
	Date     string            `json:"date"` // YYYY-MM-DD
	Summary  CashCloseSummary  `json:"summary"`
	Payments []PaymentResponse `json:"payments"`
}

// CommissionLine комиссия по одной записи
type CommissionLine struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	StartTime     time.Time `json:"startTime"`
	TotalPrice    string    `json:"totalPrice"`
	Commission    string    `json:"commission"`
}

// CommissionsResponse комиссии сотрудника за месяц
type CommissionsResponse struct {
	StaffID          uuid.UUID        `json:"staffId"`
	StaffName        string           `json:"staffName"`
	Period           string           `json:"period"` // YYYY-MM
	CommissionRate   string           `json:"commissionRate"`
	AppointmentCount int              `json:"appointmentCount"`
	TotalRevenue     string           `json:"totalRevenue"`
	TotalCommissions string           `json:"totalCommissions"`
	Appointments     []CommissionLine `json:"appointments"`
}

// Методы конвертации

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ClientID:      p.ClientID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount.StringFixed(2),
		Type:          string(p.Type),
		Status:        string(p.Status),
		ExternalRef:   p.ExternalRef,
		CreatedAt:     p.CreatedAt,
	}
}

// FromDomainPaymentList конвертирует список domain моделей в DTO
func FromDomainPaymentList(payments []*domain.Payment) []PaymentResponse {
	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, FromDomainPayment(p))
	}
	return result
}
