package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

func TestResolveShopHours(t *testing.T) {
	rules := shopRulesMonFri()

	t.Run("открытый день", func(t *testing.T) {
		hours, open, err := ResolveShopHours(rules, testMonday)

		require.NoError(t, err)
		require.True(t, open)
		assert.Equal(t, 9*60, hours.OpenMinutes)
		assert.Equal(t, 17*60, hours.CloseMinutes)
	})

	t.Run("день без правила закрыт", func(t *testing.T) {
		sunday := testMonday.AddDate(0, 0, -1)

		_, open, err := ResolveShopHours(rules, sunday)

		require.NoError(t, err)
		assert.False(t, open)
	})

	t.Run("выключенное правило означает закрыто", func(t *testing.T) {
		disabled := append(rules, domain.WeeklyHoursRule{
			OwnerType: domain.OwnerShop,
			OwnerID:   1,
			DayOfWeek: 6,
			OpenTime:  "10:00",
			CloseTime: "14:00",
			IsEnabled: false,
		})
		saturday := testMonday.AddDate(0, 0, 5)

		_, open, err := ResolveShopHours(disabled, saturday)

		require.NoError(t, err)
		assert.False(t, open)
	})

	t.Run("битое время - ошибка конфигурации", func(t *testing.T) {
		broken := []domain.WeeklyHoursRule{{
			OwnerType: domain.OwnerShop,
			OwnerID:   1,
			DayOfWeek: 1,
			OpenTime:  "0900",
			CloseTime: "17:00",
			IsEnabled: true,
		}}

		_, _, err := ResolveShopHours(broken, testMonday)

		assert.ErrorIs(t, err, ErrMalformedRule)
	})
}

func TestResolveStaffHours(t *testing.T) {
	shopHours := DayHours{OpenMinutes: 9 * 60, CloseMinutes: 17 * 60}

	t.Run("без персональных правил наследует часы барбершопа", func(t *testing.T) {
		hours, working, err := ResolveStaffHours(101, map[int64][]domain.WeeklyHoursRule{}, shopHours, testMonday)

		require.NoError(t, err)
		require.True(t, working)
		assert.Equal(t, shopHours, hours)
	})

	t.Run("персональное правило на сегодня перекрывает часы барбершопа", func(t *testing.T) {
		rules := map[int64][]domain.WeeklyHoursRule{
			101: {staffRule(101, 1, "12:00", "20:00", true)},
		}

		hours, working, err := ResolveStaffHours(101, rules, shopHours, testMonday)

		require.NoError(t, err)
		require.True(t, working)
		assert.Equal(t, 12*60, hours.OpenMinutes)
		assert.Equal(t, 20*60, hours.CloseMinutes)
	})

	t.Run("кастомное расписание без правила на сегодня - выходной", func(t *testing.T) {
		// Правило только на вторник: в понедельник мастер НЕ работает,
		// отката к часам барбершопа нет
		rules := map[int64][]domain.WeeklyHoursRule{
			101: {staffRule(101, 2, "09:00", "17:00", true)},
		}

		_, working, err := ResolveStaffHours(101, rules, shopHours, testMonday)

		require.NoError(t, err)
		assert.False(t, working)
	})

	t.Run("выключенное правило на сегодня - выходной", func(t *testing.T) {
		rules := map[int64][]domain.WeeklyHoursRule{
			101: {staffRule(101, 1, "09:00", "17:00", false)},
		}

		_, working, err := ResolveStaffHours(101, rules, shopHours, testMonday)

		require.NoError(t, err)
		assert.False(t, working)
	})

	t.Run("правила другого мастера не влияют", func(t *testing.T) {
		rules := map[int64][]domain.WeeklyHoursRule{
			202: {staffRule(202, 1, "12:00", "20:00", true)},
		}

		hours, working, err := ResolveStaffHours(101, rules, shopHours, testMonday)

		require.NoError(t, err)
		require.True(t, working)
		assert.Equal(t, shopHours, hours)
	})
}

func TestWithinBookingWindow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 2, 10, 30, 0, 0, loc)

	tests := []struct {
		name       string
		date       time.Time
		windowDays int
		want       bool
	}{
		{"сегодня", now, 30, true},
		{"ровно на границе окна", now.AddDate(0, 0, 30), 30, true},
		{"на день за границей", now.AddDate(0, 0, 31), 30, false},
		{"без лимита при нуле", now.AddDate(0, 0, 500), 0, true},
		{"отрицательное окно не открывает запись", now.AddDate(0, 0, 1), -1, false},
		{"прошлая дата внутри окна", now.AddDate(0, 0, -5), 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinBookingWindow(tt.date, now, loc, tt.windowDays))
		})
	}
}

func TestWithinBookingWindow_BusinessTimezone(t *testing.T) {
	// 23:30 UTC 2 июня = уже 3 июня в Москве: граница окна сдвигается
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	now := time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC)
	boundary := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)

	assert.True(t, WithinBookingWindow(boundary, now, loc, 7))
	assert.False(t, WithinBookingWindow(boundary.AddDate(0, 0, 1), now, loc, 7))
}
