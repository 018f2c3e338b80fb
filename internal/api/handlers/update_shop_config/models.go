package update_shop_config

import "github.com/barberhub/BH-BookingService/internal/service/schedule/models"

// UpdateConfigRequest HTTP request model
type UpdateConfigRequest struct {
	Timezone            string `json:"timezone"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	BufferMinutes       int    `json:"bufferMinutes"`
	BookingWindowDays   int    `json:"bookingWindowDays"`
	MinAdvanceHours     int    `json:"minAdvanceHours"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateConfigRequest) ToServiceRequest(shopID, userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:              userID,
		ShopID:              shopID,
		Timezone:            r.Timezone,
		SlotIntervalMinutes: r.SlotIntervalMinutes,
		BufferMinutes:       r.BufferMinutes,
		BookingWindowDays:   r.BookingWindowDays,
		MinAdvanceHours:     r.MinAdvanceHours,
	}
}
