package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

func TestValidateScheduleRequest(t *testing.T) {
	s := &Service{}

	valid := func() *models.ReplaceScheduleRequest {
		return &models.ReplaceScheduleRequest{
			UserID:    1,
			ShopID:    10,
			OwnerType: "staff",
			OwnerID:   101,
			Rules: []models.WeeklyRuleInput{
				{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsEnabled: true},
				{DayOfWeek: 2, OpenTime: "10:00", CloseTime: "16:00", IsEnabled: true},
			},
		}
	}

	t.Run("валидный запрос", func(t *testing.T) {
		ownerType, err := s.validateScheduleRequest(valid())
		assert.NoError(t, err)
		assert.Equal(t, domain.OwnerStaff, ownerType)
	})

	t.Run("пустой список правил допустим", func(t *testing.T) {
		// Полное удаление расписания мастера - валидная операция:
		// мастер возвращается к наследованию часов барбершопа
		req := valid()
		req.Rules = nil
		_, err := s.validateScheduleRequest(req)
		assert.NoError(t, err)
	})

	t.Run("неизвестный ownerType", func(t *testing.T) {
		req := valid()
		req.OwnerType = "manager"
		_, err := s.validateScheduleRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ownerID не совпадает с shopID для shop правил", func(t *testing.T) {
		req := valid()
		req.OwnerType = "shop"
		req.OwnerID = 999
		_, err := s.validateScheduleRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("день недели вне диапазона", func(t *testing.T) {
		req := valid()
		req.Rules[0].DayOfWeek = 7
		_, err := s.validateScheduleRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("дубликат дня недели", func(t *testing.T) {
		req := valid()
		req.Rules[1].DayOfWeek = 1
		_, err := s.validateScheduleRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("открытие не раньше закрытия", func(t *testing.T) {
		req := valid()
		req.Rules[0].OpenTime = "18:00"
		req.Rules[0].CloseTime = "09:00"
		_, err := s.validateScheduleRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("кривой формат времени", func(t *testing.T) {
		req := valid()
		req.Rules[0].OpenTime = "9am"
		_, err := s.validateScheduleRequest(req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestValidateConfigRequest(t *testing.T) {
	s := &Service{}

	valid := func() *models.UpsertConfigRequest {
		return &models.UpsertConfigRequest{
			UserID:              1,
			ShopID:              10,
			Timezone:            "Europe/Moscow",
			SlotIntervalMinutes: 15,
			BufferMinutes:       10,
			BookingWindowDays:   30,
			MinAdvanceHours:     2,
		}
	}

	t.Run("валидный запрос", func(t *testing.T) {
		assert.NoError(t, s.validateConfigRequest(valid()))
	})

	t.Run("неизвестная таймзона", func(t *testing.T) {
		req := valid()
		req.Timezone = "Mars/Olympus"
		assert.ErrorIs(t, s.validateConfigRequest(req), ErrInvalidInput)
	})

	t.Run("слишком маленький шаг сетки", func(t *testing.T) {
		req := valid()
		req.SlotIntervalMinutes = 1
		assert.ErrorIs(t, s.validateConfigRequest(req), ErrInvalidInput)
	})

	t.Run("отрицательный буфер", func(t *testing.T) {
		req := valid()
		req.BufferMinutes = -5
		assert.ErrorIs(t, s.validateConfigRequest(req), ErrInvalidInput)
	})

	t.Run("нулевой горизонт записи допустим", func(t *testing.T) {
		// 0 = запись без ограничения по дате
		req := valid()
		req.BookingWindowDays = 0
		assert.NoError(t, s.validateConfigRequest(req))
	})

	t.Run("горизонт записи больше года", func(t *testing.T) {
		req := valid()
		req.BookingWindowDays = 400
		assert.ErrorIs(t, s.validateConfigRequest(req), ErrInvalidInput)
	})
}
