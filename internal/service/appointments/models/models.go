package models

import (
	"errors"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetClientAppointmentsRequest запрос на получение записей клиента
type GetClientAppointmentsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetShopAppointmentsRequest запрос на получение записей барбершопа
type GetShopAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	ShopID          int64      `json:"shopId"`
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по мастеру (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetShopAppointmentsRequest) ToDomainFilter() (domain.ShopAppointmentsFilter, error) {
	filter := domain.ShopAppointmentsFilter{
		ShopID:          r.ShopID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	ShopID          int64   `json:"shopId"`
	StaffID         int64   `json:"staffId"`
	ServiceIDs      []int64 `json:"serviceIds"`
	Date            string  `json:"date"`      // "2025-10-15"
	StartTime       string  `json:"startTime"` // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`

	// Денормализованные данные
	ServiceNames []string `json:"serviceNames"`
	TotalPrice   float64  `json:"totalPrice"`
	ClientName   *string  `json:"clientName,omitempty"`
	ClientPhone  *string  `json:"clientPhone,omitempty"`
	Notes        *string  `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// Дата и время отдаются в таймзоне, в которой запись хранится (UTC),
// конвертация в локальное время - забота клиента API
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ClientID:           a.ClientID,
		ShopID:             a.ShopID,
		StaffID:            a.StaffID,
		ServiceIDs:         a.ServiceIDs,
		Date:               a.StartAt.Format(domain.DateFormat),
		StartTime:          a.StartAt.Format(domain.TimeFormat),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceNames:       a.ServiceNames,
		TotalPrice:         a.TotalPrice,
		ClientName:         a.ClientName,
		ClientPhone:        a.ClientPhone,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		formatted := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	list := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		list = append(list, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: list}
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	switch status {
	case domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByClient,
		domain.StatusCancelledByShop,
		domain.StatusNoShow:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}
