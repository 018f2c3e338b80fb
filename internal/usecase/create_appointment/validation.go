package create_appointment

import (
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/availability"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one serviceID is required", ErrInvalidInput)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи:
// не в прошлом и в пределах горизонта записи
func validateDate(date, now time.Time, loc *time.Location, bookingWindowDays int) error {
	if isDateInPast(date, now, loc) {
		return ErrInvalidDate
	}

	if !availability.WithinBookingWindow(date, now, loc, bookingWindowDays) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, bookingWindowDays)
	}

	return nil
}

// validateAdvanceNotice проверяет минимальный интервал до начала записи
func validateAdvanceNotice(
	date time.Time,
	startTime types.TimeString,
	now time.Time,
	loc *time.Location,
	minAdvanceHours int,
) error {
	if minAdvanceHours <= 0 {
		return nil
	}

	minutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	startAt := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(minutes) * time.Minute)

	if startAt.Before(now.Add(time.Duration(minAdvanceHours) * time.Hour)) {
		return fmt.Errorf("%w: must book at least %d hours in advance", ErrTooLateToBook, minAdvanceHours)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня в таймзоне барбершопа
func isDateInPast(date, now time.Time, loc *time.Location) bool {
	nowInLoc := now.In(loc)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	todayOnly := time.Date(nowInLoc.Year(), nowInLoc.Month(), nowInLoc.Day(), 0, 0, 0, 0, loc)
	return dateOnly.Before(todayOnly)
}
