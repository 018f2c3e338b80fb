package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/availability"
	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	catalogClient "github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/pkg/txmanager"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	staffRepo       StaffRepository
	timeBlockRepo   TimeBlockRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	clientClient    ClientServiceClient
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
	clientClient ClientServiceClient,
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
		clientClient:    clientClient,
		txManager:       txManager,
		publisher:       publisher,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// параллельная запись на тот же слот либо увидит этот слот занятым,
// либо упадет с serialization failure и будет отклонена
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, shop=%d, services=%v, date=%s, time=%s",
		req.ClientID, req.ShopID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование барбершопа
	shop, err := uc.catalogClient.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			uc.logger.Warn("CreateAppointment: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	// 4. Получаем услуги: суммарная длительность, цена и названия для денормализации
	services, err := uc.catalogClient.GetServices(ctx, req.ShopID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: services %v not found in shop id=%d", req.ServiceIDs, req.ShopID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	totalDuration := 0
	totalPrice := 0.0
	serviceNames := make([]string, 0, len(services))
	for _, svc := range services {
		totalDuration += svc.DurationMinutes
		totalPrice += getServicePrice(svc)
		serviceNames = append(serviceNames, svc.Name)
	}

	// 5. Получаем профиль клиента для денормализации (graceful degradation:
	// недоступность сервиса клиентов не должна блокировать запись)
	var clientName, clientPhone *string
	profile, err := uc.clientClient.GetClientWithGracefulDegradation(ctx, req.ClientID)
	if err != nil {
		uc.logger.Warn("CreateAppointment: client service degraded for client id=%d: %v", req.ClientID, err)
	} else if profile != nil {
		clientName = &profile.Name
		clientPhone = &profile.Phone
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Загружаем конфигурацию бронирования (или дефолты)
		cfg, err := uc.loadConfig(txCtx, req.ShopID, shop.Timezone)
		if err != nil {
			return err
		}

		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			uc.logger.Error("CreateAppointment: shop id=%d has unknown timezone %q", req.ShopID, cfg.Timezone)
			return fmt.Errorf("%w: unknown timezone %q", ErrMisconfiguredShop, cfg.Timezone)
		}

		// 6.2. Валидация даты: не в прошлом и в пределах горизонта записи
		if err := validateDate(req.Date, now, loc, cfg.BookingWindowDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 6.3. Загружаем входные данные движка
		// Запросы выполняются в txCtx: записи дня блокируются FOR UPDATE
		input, err := uc.loadEngineInput(txCtx, req, cfg, totalDuration, now, loc)
		if err != nil {
			return err
		}

		// 6.4. Барбершоп должен работать в этот день
		if _, open, err := availability.ResolveShopHours(input.ShopRules, req.Date); err != nil {
			uc.logger.Error("CreateAppointment: shop id=%d is misconfigured: %v", req.ShopID, err)
			return fmt.Errorf("%w: %v", ErrMisconfiguredShop, err)
		} else if !open {
			uc.logger.Warn("CreateAppointment: shop id=%d is closed on %s",
				req.ShopID, req.Date.Format(domain.DateFormat))
			return ErrShopClosed
		}

		// 6.5. Генерируем актуальные слоты и ищем запрошенный
		slots, err := availability.GenerateSlots(*input)
		if err != nil {
			if errors.Is(err, availability.ErrMalformedRule) ||
				errors.Is(err, availability.ErrInvalidConfig) ||
				errors.Is(err, availability.ErrUnknownTimezone) {
				uc.logger.Error("CreateAppointment: shop id=%d is misconfigured: %v", req.ShopID, err)
				return fmt.Errorf("%w: %v", ErrMisconfiguredShop, err)
			}
			uc.logger.Error("CreateAppointment: failed to generate slots: %v", err)
			return fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		slot := findSlot(slots, req.StartTime)
		if slot == nil {
			// Слот может отсутствовать из-за минимального интервала записи - даем
			// клиенту более точную ошибку
			if err := validateAdvanceNotice(req.Date, req.StartTime, now, loc, cfg.MinAdvanceHours); err != nil {
				uc.logger.Warn("CreateAppointment: advance notice violated: %v", err)
				return err
			}
			uc.logger.Warn("CreateAppointment: slot %s is not available on %s",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		// 6.6. Назначаем мастера: запрошенного или первого свободного
		staffID, err := chooseStaff(slot, req.StaffID)
		if err != nil {
			uc.logger.Warn("CreateAppointment: staff choice failed: %v", err)
			return err
		}

		// 6.7. Создаем запись с денормализацией данных
		startAt, endAt, err := slotBounds(req.Date, req.StartTime, totalDuration, loc)
		if err != nil {
			return fmt.Errorf("%w: failed to compute slot bounds: %v", ErrInternal, err)
		}

		appt := &domain.Appointment{
			ShopID:          req.ShopID,
			ClientID:        req.ClientID,
			StaffID:         staffID,
			ServiceIDs:      req.ServiceIDs,
			StartAt:         startAt,
			EndAt:           endAt,
			DurationMinutes: totalDuration,
			Status:          domain.StatusConfirmed,
			// Денормализация: история записи не зависит от изменений каталога
			ServiceNames: serviceNames,
			TotalPrice:   totalPrice,
			ClientName:   clientName,
			ClientPhone:  clientPhone,
			Notes:        req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигравшая сериализуемая транзакция означает, что слот
		// только что забрала параллельная запись
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateAppointment: lost serializable race for shop id=%d: %v", req.ShopID, err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, staff=%d",
		result.ID, result.StaffID)

	// 7. Публикуем событие и сбрасываем кеш слотов (best-effort, после коммита)
	uc.notifyCreated(ctx, result)

	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		ShopID:          result.ShopID,
		StaffID:         result.StaffID,
		ServiceIDs:      result.ServiceIDs,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceNames:    result.ServiceNames,
		TotalPrice:      result.TotalPrice,
		ClientName:      result.ClientName,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// loadConfig загружает конфигурацию бронирования барбершопа
// Если конфигурация не настроена, используются дефолтные значения
// с таймзоной из каталога
func (uc *UseCase) loadConfig(ctx context.Context, shopID int64, catalogTimezone string) (*domain.ShopConfig, error) {
	cfg, err := uc.configRepo.GetByShopID(ctx, shopID)
	if err != nil && !errors.Is(err, shopconfig.ErrConfigNotFound) {
		uc.logger.Error("CreateAppointment: failed to get config: %v", err)
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
		uc.logger.Info("CreateAppointment: using default config for shop=%d", shopID)
	}

	return cfg, nil
}

// loadEngineInput загружает все входные данные движка доступности
func (uc *UseCase) loadEngineInput(
	ctx context.Context,
	req *Request,
	cfg *domain.ShopConfig,
	totalDuration int,
	now time.Time,
	loc *time.Location,
) (*availability.Input, error) {
	shopRules, err := uc.scheduleRepo.GetShopRules(ctx, req.ShopID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get shop rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get shop rules: %v", ErrInternal, err)
	}

	staffRules, err := uc.scheduleRepo.GetStaffRules(ctx, req.ShopID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get staff rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff rules: %v", ErrInternal, err)
	}

	roster, err := uc.staffRepo.GetActiveByShop(ctx, req.ShopID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get staff roster: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff roster: %v", ErrInternal, err)
	}

	// Границы запрошенного дня в таймзоне барбершопа, расширенные буфером
	dayFrom := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).
		Add(-time.Duration(cfg.BufferMinutes) * time.Minute)
	dayTo := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, 1).
		Add(time.Duration(cfg.BufferMinutes) * time.Minute)

	blocks, err := uc.timeBlockRepo.GetOverlappingRange(ctx, req.ShopID, dayFrom, dayTo)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	filter := domain.ShopAppointmentsFilter{
		ShopID:          req.ShopID,
		StaffID:         req.StaffID,
		StartDate:       &dayFrom,
		EndDate:         &dayTo,
		IncludeInactive: false, // Только активные записи
	}

	appointments, err := uc.appointmentRepo.GetByShopWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
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
		DurationMinutes: totalDuration,
		Staff:           requestedStaff,
		Now:             now,
	}, nil
}

// notifyCreated публикует событие создания и сбрасывает кеш слотов на этот день
// Ошибки здесь не фатальны: запись уже создана
func (uc *UseCase) notifyCreated(ctx context.Context, appt *domain.Appointment) {
	if uc.publisher != nil {
		event := events.AppointmentEvent{
			Type:          events.TypeAppointmentCreated,
			AppointmentID: appt.ID,
			ShopID:        appt.ShopID,
			ClientID:      appt.ClientID,
			StaffID:       appt.StaffID,
			StartAt:       appt.StartAt,
			EndAt:         appt.EndAt,
			OccurredAt:    uc.timeProvider.Now(),
		}
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Warn("CreateAppointment: failed to publish event: %v", err)
		}
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, appt.ShopID, appt.StartAt)
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

// chooseStaff выбирает мастера для записи
// Запрошенный мастер должен быть в списке подходящих; при выборе
// "любой мастер" берется первый подходящий
func chooseStaff(slot *domain.AvailableSlot, requested *int64) (int64, error) {
	if requested != nil {
		if !slot.HasStaff(*requested) {
			return 0, ErrStaffNotAvailable
		}
		return *requested, nil
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

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
