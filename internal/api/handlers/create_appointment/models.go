package create_appointment

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	createAppointment "github.com/barberhub/BH-BookingService/internal/usecase/create_appointment"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ShopID     int64   `json:"shopId"`
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	StaffID    *int64  `json:"staffId,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64    `json:"id"`
	ClientID        int64    `json:"clientId"`
	ShopID          int64    `json:"shopId"`
	StaffID         int64    `json:"staffId"`
	ServiceIDs      []int64  `json:"serviceIds"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	ServiceNames    []string `json:"serviceNames"`
	TotalPrice      float64  `json:"totalPrice"`
	ClientName      *string  `json:"clientName,omitempty"`
	ClientPhone     *string  `json:"clientPhone,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// ClientID приходит из контекста аутентификации, не из тела
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ClientID:   clientID,
		ShopID:     r.ShopID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		StartTime:  startTime,
		StaffID:    r.StaffID,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		ShopID:          resp.ShopID,
		StaffID:         resp.StaffID,
		ServiceIDs:      resp.ServiceIDs,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceNames:    resp.ServiceNames,
		TotalPrice:      resp.TotalPrice,
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
