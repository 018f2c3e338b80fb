package reschedule_appointment

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	rescheduleAppointment "github.com/barberhub/BH-BookingService/internal/usecase/reschedule_appointment"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	StaffID   *int64 `json:"staffId,omitempty"`
}

// RescheduleAppointmentResponse HTTP response model
type RescheduleAppointmentResponse struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	ShopID          int64   `json:"shopId"`
	StaffID         int64   `json:"staffId"`
	ServiceIDs      []int64 `json:"serviceIds"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	PrevStartAt     string  `json:"prevStartAt"` // ISO 8601
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, clientID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		ClientID:      clientID,
		Date:          date,
		StartTime:     startTime,
		StaffID:       r.StaffID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleAppointmentResponse {
	return &RescheduleAppointmentResponse{
		ID:              resp.ID,
		ClientID:        resp.ClientID,
		ShopID:          resp.ShopID,
		StaffID:         resp.StaffID,
		ServiceIDs:      resp.ServiceIDs,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		PrevStartAt:     resp.PrevStartAt.Format(time.RFC3339),
	}
}
