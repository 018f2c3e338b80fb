package reschedule_appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/availability"
	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	apptRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/appointment"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	catalogClient "github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/pkg/txmanager"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// UseCase use case для переноса записи на другой слот
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	staffRepo       StaffRepository
	timeBlockRepo   TimeBlockRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	txManager       TransactionManager
	publisher       EventPublisher        // nil, если события отключены
	cache           SlotsCacheInvalidator // nil, если кеш отключен
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	staffRepo StaffRepository,
	timeBlockRepo TimeBlockRepository,
	configRepo ConfigRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	cache SlotsCacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		staffRepo:       staffRepo,
		timeBlockRepo:   timeBlockRepo,
		configRepo:      configRepo,
		catalogClient:   catalogClient,
		txManager:       txManager,
		publisher:       publisher,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи
// Новый слот проверяется той же генерацией, что и при создании,
// с исключением самой переносимой записи из списка конфликтов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d, client=%d, date=%s, time=%s",
		req.AppointmentID, req.ClientID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Загружаем запись и проверяем владение
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appt.ClientID != req.ClientID {
		uc.logger.Warn("RescheduleAppointment: client id=%d is not the owner of appointment id=%d",
			req.ClientID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d in status %s cannot be rescheduled",
			req.AppointmentID, appt.Status)
		return nil, ErrCannotBeRescheduled
	}

	// 4. Проверяем существование барбершопа (таймзона нужна для дефолтов конфигурации)
	shop, err := uc.catalogClient.GetShop(ctx, appt.ShopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			uc.logger.Warn("RescheduleAppointment: shop id=%d not found", appt.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get shop id=%d: %v", appt.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	prevStartAt := appt.StartAt

	var newStaffID int64
	var newStartAt, newEndAt time.Time

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Загружаем конфигурацию бронирования (или дефолты)
		cfg, err := uc.loadConfig(txCtx, appt.ShopID, shop.Timezone)
		if err != nil {
			return err
		}

		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: shop id=%d has unknown timezone %q", appt.ShopID, cfg.Timezone)
			return fmt.Errorf("%w: unknown timezone %q", ErrMisconfiguredShop, cfg.Timezone)
		}

		// 5.2. Валидация новой даты
		if err := validateDate(req.Date, now, loc, cfg.BookingWindowDays); err != nil {
			uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
			return err
		}

		// 5.3. Загружаем входные данные движка, исключая саму переносимую запись:
		// запись не должна блокировать свой собственный новый слот
		input, err := uc.loadEngineInput(txCtx, req, appt, cfg, now, loc)
		if err != nil {
			return err
		}

		// 5.4. Барбершоп должен работать в этот день
		if _, open, err := availability.ResolveShopHours(input.ShopRules, req.Date); err != nil {
			uc.logger.Error("RescheduleAppointment: shop id=%d is misconfigured: %v", appt.ShopID, err)
			return fmt.Errorf("%w: %v", ErrMisconfiguredShop, err)
		} else if !open {
			uc.logger.Warn("RescheduleAppointment: shop id=%d is closed on %s",
				appt.ShopID, req.Date.Format(domain.DateFormat))
			return ErrShopClosed
		}

		// 5.5. Генерируем актуальные слоты и ищем запрошенный
		slots, err := availability.GenerateSlots(*input)
		if err != nil {
			if errors.Is(err, availability.ErrMalformedRule) ||
				errors.Is(err, availability.ErrInvalidConfig) ||
				errors.Is(err, availability.ErrUnknownTimezone) {
				uc.logger.Error("RescheduleAppointment: shop id=%d is misconfigured: %v", appt.ShopID, err)
				return fmt.Errorf("%w: %v", ErrMisconfiguredShop, err)
			}
			uc.logger.Error("RescheduleAppointment: failed to generate slots: %v", err)
			return fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		slot := findSlot(slots, req.StartTime)
		if slot == nil {
			if err := validateAdvanceNotice(req.Date, req.StartTime, now, loc, cfg.MinAdvanceHours); err != nil {
				uc.logger.Warn("RescheduleAppointment: advance notice violated: %v", err)
				return err
			}
			uc.logger.Warn("RescheduleAppointment: slot %s is not available on %s",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		// 5.6. Выбираем мастера: запрошенного, прежнего или первого свободного
		newStaffID, err = chooseStaff(slot, req.StaffID, appt.StaffID)
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: staff choice failed: %v", err)
			return err
		}

		// 5.7. Переносим запись
		newStartAt, newEndAt, err = slotBounds(req.Date, req.StartTime, appt.DurationMinutes, loc)
		if err != nil {
			return fmt.Errorf("%w: failed to compute slot bounds: %v", ErrInternal, err)
		}

		err = uc.appointmentRepo.Reschedule(txCtx, appt.ID, newStaffID,
			sql.NullTime{Time: newStartAt, Valid: true},
			sql.NullTime{Time: newEndAt, Valid: true},
		)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to reschedule appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to reschedule appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		// Проигравшая сериализуемая транзакция означает, что слот
		// только что забрала параллельная запись
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("RescheduleAppointment: lost serializable race for appointment id=%d: %v", req.AppointmentID, err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved %s -> %s, staff=%d",
		appt.ID, prevStartAt.Format(time.RFC3339), newStartAt.Format(time.RFC3339), newStaffID)

	// 6. Событие и сброс кеша на оба дня (best-effort, после коммита)
	uc.notifyRescheduled(ctx, appt, newStaffID, newStartAt, newEndAt, prevStartAt)

	return &Response{
		ID:              appt.ID,
		ClientID:        appt.ClientID,
		ShopID:          appt.ShopID,
		StaffID:         newStaffID,
		ServiceIDs:      appt.ServiceIDs,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		PrevStartAt:     prevStartAt,
	}, nil
}

// loadConfig загружает конфигурацию бронирования барбершопа
// Если конфигурация не настроена, используются дефолтные значения
// с таймзоной из каталога
func (uc *UseCase) loadConfig(ctx context.Context, shopID int64, catalogTimezone string) (*domain.ShopConfig, error) {
	cfg, err := uc.configRepo.GetByShopID(ctx, shopID)
	if err != nil && !errors.Is(err, shopconfig.ErrConfigNotFound) {
		uc.logger.Error("RescheduleAppointment: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	if cfg == nil {
		tz := catalogTimezone
		if tz == "" {
			tz = domain.DefaultTimezone
		}
		cfg = &domain.ShopConfig{
			ShopID:              shopID,
			Timezone:            tz,
			SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
			BufferMinutes:       domain.DefaultBufferMinutes,
			BookingWindowDays:   domain.DefaultBookingWindowDays,
			MinAdvanceHours:     domain.DefaultMinAdvanceHours,
		}
		uc.logger.Info("RescheduleAppointment: using default config for shop=%d", shopID)
	}

	return cfg, nil
}

// loadEngineInput загружает все входные данные движка доступности
// Переносимая запись исключается из списка конфликтов
func (uc *UseCase) loadEngineInput(
	ctx context.Context,
	req *Request,
	appt *domain.Appointment,
	cfg *domain.ShopConfig,
	now time.Time,
	loc *time.Location,
) (*availability.Input, error) {
	shopRules, err := uc.scheduleRepo.GetShopRules(ctx, appt.ShopID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get shop rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get shop rules: %v", ErrInternal, err)
	}

	staffRules, err := uc.scheduleRepo.GetStaffRules(ctx, appt.ShopID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get staff rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff rules: %v", ErrInternal, err)
	}

	roster, err := uc.staffRepo.GetActiveByShop(ctx, appt.ShopID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get staff roster: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff roster: %v", ErrInternal, err)
	}

	// Границы запрошенного дня в таймзоне барбершопа, расширенные буфером
	dayFrom := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).
		Add(-time.Duration(cfg.BufferMinutes) * time.Minute)
	dayTo := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, 1).
		Add(time.Duration(cfg.BufferMinutes) * time.Minute)

	blocks, err := uc.timeBlockRepo.GetOverlappingRange(ctx, appt.ShopID, dayFrom, dayTo)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	filter := domain.ShopAppointmentsFilter{
		ShopID:          appt.ShopID,
		StaffID:         req.StaffID,
		StartDate:       &dayFrom,
		EndDate:         &dayTo,
		IncludeInactive: false, // Только активные записи
		ExcludeID:       &appt.ID,
	}

	appointments, err := uc.appointmentRepo.GetByShopWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	appts := make([]domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		appts = append(appts, *a)
	}

	requestedStaff := availability.AnyStaff()
	if req.StaffID != nil {
		requestedStaff = availability.SpecificStaff(*req.StaffID)
	}

	return &availability.Input{
		Config:          *cfg,
		ShopRules:       shopRules,
		StaffRules:      staffRules,
		Roster:          roster,
		TimeBlocks:      blocks,
		Appointments:    appts,
		Date:            req.Date,
		DurationMinutes: appt.DurationMinutes,
		Staff:           requestedStaff,
		Now:             now,
	}, nil
}

// notifyRescheduled публикует событие переноса и сбрасывает кеш слотов
// на прежний и новый дни. Ошибки здесь не фатальны: перенос уже закоммичен
func (uc *UseCase) notifyRescheduled(
	ctx context.Context,
	appt *domain.Appointment,
	newStaffID int64,
	newStartAt, newEndAt, prevStartAt time.Time,
) {
	if uc.publisher != nil {
		event := events.AppointmentEvent{
			Type:          events.TypeAppointmentRescheduled,
			AppointmentID: appt.ID,
			ShopID:        appt.ShopID,
			ClientID:      appt.ClientID,
			StaffID:       newStaffID,
			StartAt:       newStartAt,
			EndAt:         newEndAt,
			PrevStartAt:   &prevStartAt,
			OccurredAt:    uc.timeProvider.Now(),
		}
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Warn("RescheduleAppointment: failed to publish event: %v", err)
		}
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, appt.ShopID, prevStartAt)
		uc.cache.InvalidateDay(ctx, appt.ShopID, newStartAt)
	}
}

// findSlot ищет слот с указанным временем начала
func findSlot(slots []domain.AvailableSlot, startTime types.TimeString) *domain.AvailableSlot {
	for i := range slots {
		if slots[i].StartTime == startTime {
			return &slots[i]
		}
	}
	return nil
}

// chooseStaff выбирает мастера для перенесенной записи
// Без явного выбора предпочитается прежний мастер, если он свободен
func chooseStaff(slot *domain.AvailableSlot, requested *int64, current int64) (int64, error) {
	if requested != nil {
		if !slot.HasStaff(*requested) {
			return 0, ErrStaffNotAvailable
		}
		return *requested, nil
	}

	if slot.HasStaff(current) {
		return current, nil
	}

	if len(slot.StaffIDs) == 0 {
		return 0, ErrSlotNotAvailable
	}
	return slot.StaffIDs[0], nil
}

// slotBounds вычисляет абсолютные границы записи в таймзоне барбершопа
func slotBounds(date time.Time, startTime types.TimeString, durationMinutes int, loc *time.Location) (time.Time, time.Time, error) {
	minutes, err := startTime.Minutes()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	startAt := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(minutes) * time.Minute)
	endAt := startAt.Add(time.Duration(durationMinutes) * time.Minute)

	return startAt, endAt, nil
}
