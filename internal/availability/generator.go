package availability

import (
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// GenerateSlots вычисляет доступные для записи слоты на запрошенный день.
//
// Детерминированная чистая функция: одинаковый вход дает одинаковый выход.
// Слоты выдаются по возрастанию времени; порядок мастеров в StaffIDs повторяет
// порядок ростера, чтобы выбор "любого мастера" был воспроизводим.
//
// Пустой результат - не ошибка: так выглядят закрытый день, неработающие
// мастера или услуга, которая не помещается в рабочий день.
func GenerateSlots(in Input) ([]domain.AvailableSlot, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(in.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, in.Config.Timezone)
	}

	day := dayStart(in.Date, loc)

	// 1. Часы работы барбершопа: закрыт - слотов нет
	shopHours, open, err := ResolveShopHours(in.ShopRules, day)
	if err != nil {
		return nil, err
	}
	if !open {
		return []domain.AvailableSlot{}, nil
	}

	// 2. Услуга с буфером физически не помещается в рабочий день
	if in.DurationMinutes+in.Config.BufferMinutes > shopHours.Span() {
		return []domain.AvailableSlot{}, nil
	}

	// 3. Разворачиваем выбор мастера в подмножество ростера
	roster := selectRoster(in.Roster, in.Staff)

	// 4. Часы каждого мастера резолвятся один раз на весь запрос
	working, err := resolveWorkingRoster(roster, in.StaffRules, shopHours, day)
	if err != nil {
		return nil, err
	}
	if len(working) == 0 {
		return []domain.AvailableSlot{}, nil
	}

	var (
		buffer   = time.Duration(in.Config.BufferMinutes) * time.Minute
		minStart = in.Now.Add(time.Duration(in.Config.MinAdvanceHours) * time.Hour)
		slots    = make([]domain.AvailableSlot, 0)
	)

	// 5. Шагаем по рабочему дню с фиксированным интервалом
	// Вся арифметика времени суток - в целых минутах с начала суток
	for cur := shopHours.OpenMinutes; cur+in.DurationMinutes+in.Config.BufferMinutes <= shopHours.CloseMinutes; cur += in.Config.SlotIntervalMinutes {
		candidate := interval{
			Start: instantAt(day, cur),
			End:   instantAt(day, cur+in.DurationMinutes),
		}

		// Слот в прошлом (с учетом минимального времени до записи) не выдаем
		if candidate.Start.Before(minStart) {
			continue
		}

		eligible := make([]int64, 0, len(working))
		for _, staff := range working {
			// Кандидат должен целиком лежать в персональных часах мастера
			if cur < staff.Hours.OpenMinutes || cur+in.DurationMinutes > staff.Hours.CloseMinutes {
				continue
			}
			if staffEligible(staff.ID, candidate, in.TimeBlocks, in.Appointments, buffer) {
				eligible = append(eligible, staff.ID)
			}
		}

		if len(eligible) == 0 {
			continue
		}

		startTime, err := types.NewTimeStringFromMinutes(cur)
		if err != nil {
			return nil, fmt.Errorf("%w: slot start out of day bounds: %v", ErrInvalidConfig, err)
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime: startTime,
			StaffIDs:  eligible,
		})
	}

	return slots, nil
}

// validateInput проверяет предусловия движка
// Отсутствие обязательных входов - fail fast, а не мягкий дефолт
func validateInput(in Input) error {
	if in.Config.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: slot interval must be positive, got %d", ErrInvalidConfig, in.Config.SlotIntervalMinutes)
	}
	if in.Config.BufferMinutes < 0 {
		return fmt.Errorf("%w: buffer must be non-negative, got %d", ErrInvalidConfig, in.Config.BufferMinutes)
	}
	if in.Config.MinAdvanceHours < 0 {
		return fmt.Errorf("%w: min advance hours must be non-negative, got %d", ErrInvalidConfig, in.Config.MinAdvanceHours)
	}
	if in.Config.BookingWindowDays < 0 {
		return fmt.Errorf("%w: booking window days must be non-negative, got %d", ErrInvalidConfig, in.Config.BookingWindowDays)
	}
	if in.Config.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidConfig)
	}
	if in.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service duration must be positive, got %d", ErrMissingInput, in.DurationMinutes)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrMissingInput)
	}
	if in.Now.IsZero() {
		return fmt.Errorf("%w: current time is required", ErrMissingInput)
	}
	return nil
}

// selectRoster разворачивает выбор мастера в конкретное подмножество ростера
// Для SpecificStaff, отсутствующего в ростере, вернется пустое подмножество
func selectRoster(roster []domain.StaffMember, staff RequestedStaff) []domain.StaffMember {
	if staff.IsAny() {
		return roster
	}

	for _, member := range roster {
		if member.ID == staff.StaffID() {
			return []domain.StaffMember{member}
		}
	}
	return nil
}
