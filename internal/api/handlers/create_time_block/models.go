package create_time_block

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

// CreateTimeBlockRequest HTTP request model
type CreateTimeBlockRequest struct {
	StaffID *int64    `json:"staffId,omitempty"` // nil = блокировка на весь барбершоп
	StartAt time.Time `json:"startAt"`           // RFC 3339
	EndAt   time.Time `json:"endAt"`             // RFC 3339
	Reason  *string   `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateTimeBlockRequest) ToServiceRequest(shopID, userID int64) *models.CreateTimeBlockRequest {
	return &models.CreateTimeBlockRequest{
		UserID:  userID,
		ShopID:  shopID,
		StaffID: r.StaffID,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
		Reason:  r.Reason,
	}
}
