package models

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// Request модели

// WeeklyRuleInput одно правило еженедельного расписания в запросе
type WeeklyRuleInput struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "18:00"
	IsEnabled bool   `json:"isEnabled"`
}

// ReplaceScheduleRequest запрос на полную замену расписания владельца
// OwnerType "shop" задает часы барбершопа, "staff" - персональные часы мастера
type ReplaceScheduleRequest struct {
	UserID    int64             `json:"userId"`
	ShopID    int64             `json:"shopId"`
	OwnerType string            `json:"ownerType"`
	OwnerID   int64             `json:"ownerId"`
	Rules     []WeeklyRuleInput `json:"rules"`
}

// UpsertConfigRequest запрос на создание/обновление конфигурации бронирования
type UpsertConfigRequest struct {
	UserID              int64  `json:"userId"`
	ShopID              int64  `json:"shopId"`
	Timezone            string `json:"timezone"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	BufferMinutes       int    `json:"bufferMinutes"`
	BookingWindowDays   int    `json:"bookingWindowDays"`
	MinAdvanceHours     int    `json:"minAdvanceHours"`
}

// CreateTimeBlockRequest запрос на создание блокировки времени
type CreateTimeBlockRequest struct {
	UserID  int64     `json:"userId"`
	ShopID  int64     `json:"shopId"`
	StaffID *int64    `json:"staffId,omitempty"` // nil = блокировка для всех мастеров
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  *string   `json:"reason,omitempty"`
}

// ListTimeBlocksRequest запрос на получение блокировок за период
type ListTimeBlocksRequest struct {
	UserID int64     `json:"userId"`
	ShopID int64     `json:"shopId"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// Response модели

// WeeklyRuleResponse одно правило еженедельного расписания
type WeeklyRuleResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsEnabled bool   `json:"isEnabled"`
}

// ScheduleResponse расписание барбершопа: часы работы и персональные часы мастеров
type ScheduleResponse struct {
	ShopID     int64                          `json:"shopId"`
	ShopRules  []WeeklyRuleResponse           `json:"shopRules"`
	StaffRules map[int64][]WeeklyRuleResponse `json:"staffRules"`
}

// OwnerScheduleResponse расписание одного владельца (барбершопа или мастера)
type OwnerScheduleResponse struct {
	ShopID    int64                `json:"shopId"`
	OwnerType string               `json:"ownerType"`
	OwnerID   int64                `json:"ownerId"`
	Rules     []WeeklyRuleResponse `json:"rules"`
}

// ConfigResponse конфигурация бронирования барбершопа
type ConfigResponse struct {
	ShopID              int64  `json:"shopId"`
	Timezone            string `json:"timezone"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	BufferMinutes       int    `json:"bufferMinutes"`
	BookingWindowDays   int    `json:"bookingWindowDays"`
	MinAdvanceHours     int    `json:"minAdvanceHours"`
	IsDefault           bool   `json:"isDefault"` // true, если конфигурация не настроена и отданы дефолты
}

// TimeBlockResponse блокировка времени
type TimeBlockResponse struct {
	ID        int64     `json:"id"`
	ShopID    int64     `json:"shopId"`
	StaffID   *int64    `json:"staffId,omitempty"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimeBlockListResponse список блокировок
type TimeBlockListResponse struct {
	TimeBlocks []TimeBlockResponse `json:"timeBlocks"`
}

// Методы конвертации

// ToDomainRules конвертирует правила запроса в domain модели
func (r *ReplaceScheduleRequest) ToDomainRules(ownerType domain.OwnerType) []domain.WeeklyHoursRule {
	rules := make([]domain.WeeklyHoursRule, 0, len(r.Rules))
	for _, in := range r.Rules {
		rules = append(rules, domain.WeeklyHoursRule{
			ShopID:    r.ShopID,
			OwnerType: ownerType,
			OwnerID:   r.OwnerID,
			DayOfWeek: in.DayOfWeek,
			OpenTime:  types.TimeString(in.OpenTime),
			CloseTime: types.TimeString(in.CloseTime),
			IsEnabled: in.IsEnabled,
		})
	}
	return rules
}

// ToDomainConfig конвертирует запрос в domain модель конфигурации
func (r *UpsertConfigRequest) ToDomainConfig() *domain.ShopConfig {
	return &domain.ShopConfig{
		ShopID:              r.ShopID,
		Timezone:            r.Timezone,
		SlotIntervalMinutes: r.SlotIntervalMinutes,
		BufferMinutes:       r.BufferMinutes,
		BookingWindowDays:   r.BookingWindowDays,
		MinAdvanceHours:     r.MinAdvanceHours,
	}
}

// ToDomainTimeBlock конвертирует запрос в domain модель блокировки
func (r *CreateTimeBlockRequest) ToDomainTimeBlock() *domain.TimeBlock {
	return &domain.TimeBlock{
		ShopID:  r.ShopID,
		StaffID: r.StaffID,
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
		Reason:  r.Reason,
	}
}

// FromDomainRules конвертирует domain правила в DTO
func FromDomainRules(rules []domain.WeeklyHoursRule) []WeeklyRuleResponse {
	result := make([]WeeklyRuleResponse, 0, len(rules))
	for _, rule := range rules {
		result = append(result, WeeklyRuleResponse{
			DayOfWeek: rule.DayOfWeek,
			OpenTime:  rule.OpenTime.String(),
			CloseTime: rule.CloseTime.String(),
			IsEnabled: rule.IsEnabled,
		})
	}
	return result
}

// FromDomainConfig конвертирует domain конфигурацию в DTO
func FromDomainConfig(cfg *domain.ShopConfig, isDefault bool) *ConfigResponse {
	return &ConfigResponse{
		ShopID:              cfg.ShopID,
		Timezone:            cfg.Timezone,
		SlotIntervalMinutes: cfg.SlotIntervalMinutes,
		BufferMinutes:       cfg.BufferMinutes,
		BookingWindowDays:   cfg.BookingWindowDays,
		MinAdvanceHours:     cfg.MinAdvanceHours,
		IsDefault:           isDefault,
	}
}

// FromDomainTimeBlock конвертирует domain блокировку в DTO
func FromDomainTimeBlock(b *domain.TimeBlock) *TimeBlockResponse {
	if b == nil {
		return nil
	}
	return &TimeBlockResponse{
		ID:        b.ID,
		ShopID:    b.ShopID,
		StaffID:   b.StaffID,
		StartAt:   b.StartAt,
		EndAt:     b.EndAt,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainTimeBlockList конвертирует список domain блокировок в DTO
func FromDomainTimeBlockList(blocks []domain.TimeBlock) *TimeBlockListResponse {
	list := make([]TimeBlockResponse, 0, len(blocks))
	for i := range blocks {
		list = append(list, *FromDomainTimeBlock(&blocks[i]))
	}
	return &TimeBlockListResponse{TimeBlocks: list}
}
