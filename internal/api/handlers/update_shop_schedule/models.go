package update_shop_schedule

import "github.com/barberhub/BH-BookingService/internal/service/schedule/models"

// ReplaceScheduleRequest HTTP request model
type ReplaceScheduleRequest struct {
	OwnerType string                   `json:"ownerType"` // "shop" или "staff"
	OwnerID   int64                    `json:"ownerId"`
	Rules     []models.WeeklyRuleInput `json:"rules"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReplaceScheduleRequest) ToServiceRequest(shopID, userID int64) *models.ReplaceScheduleRequest {
	return &models.ReplaceScheduleRequest{
		UserID:    userID,
		ShopID:    shopID,
		OwnerType: r.OwnerType,
		OwnerID:   r.OwnerID,
		Rules:     r.Rules,
	}
}
