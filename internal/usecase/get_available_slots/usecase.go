package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/availability"
	"github.com/barberhub/BH-BookingService/internal/domain"
	availabilityCache "github.com/barberhub/BH-BookingService/internal/infra/cache/availability"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	catalogClient "github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	staffRepo       StaffRepository
	timeBlockRepo   TimeBlockRepository
	configRepo      ConfigRepository
	catalogClient   CatalogServiceClient
	cache           SlotsCache // nil, если кеш отключен
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
	cache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		staffRepo:       staffRepo,
		timeBlockRepo:   timeBlockRepo,
		configRepo:      configRepo,
		catalogClient:   catalogClient,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Движок доступности - чистая функция: все данные (конфигурация, расписания,
// мастера, блокировки, записи) загружаются здесь, до его вызова
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: shop=%d, services=%v, date=%s",
		req.ShopID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование барбершопа
	shop, err := uc.catalogClient.GetShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%d not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get shop id=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	// 4. Считаем суммарную длительность пакета услуг
	services, err := uc.catalogClient.GetServices(ctx, req.ShopID, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: services %v not found in shop id=%d", req.ServiceIDs, req.ShopID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	totalDuration := 0
	for _, svc := range services {
		totalDuration += svc.DurationMinutes
	}

	// 5. Загружаем конфигурацию бронирования (или дефолты)
	cfg, err := uc.loadConfig(ctx, req.ShopID, shop.Timezone)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: shop id=%d has unknown timezone %q", req.ShopID, cfg.Timezone)
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrMisconfiguredShop, cfg.Timezone)
	}

	// 6. Дешевый гейт: дата за горизонтом записи - сразу пустой ответ,
	// без загрузки расписаний и записей
	if !availability.WithinBookingWindow(req.Date, now, loc, cfg.BookingWindowDays) {
		uc.logger.Info("GetAvailableSlots: date %s is outside booking window of %d days",
			req.Date.Format(domain.DateFormat), cfg.BookingWindowDays)
		return uc.emptyResponse(req, totalDuration), nil
	}

	// 7. Проверяем кеш
	cacheKey := availabilityCache.Key(req.ShopID, req.Date, totalDuration, req.StaffID)
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
			uc.logger.Info("GetAvailableSlots: cache hit for shop=%d date=%s",
				req.ShopID, req.Date.Format(domain.DateFormat))
			return uc.response(req, totalDuration, cached), nil
		}
	}

	// 8. Загружаем входные данные движка
	input, err := uc.loadEngineInput(ctx, req, cfg, totalDuration, now, loc)
	if err != nil {
		return nil, err
	}

	// 9. Генерируем слоты
	slots, err := availability.GenerateSlots(*input)
	if err != nil {
		if errors.Is(err, availability.ErrMalformedRule) ||
			errors.Is(err, availability.ErrInvalidConfig) ||
			errors.Is(err, availability.ErrUnknownTimezone) {
			uc.logger.Error("GetAvailableSlots: shop id=%d is misconfigured: %v", req.ShopID, err)
			return nil, fmt.Errorf("%w: %v", ErrMisconfiguredShop, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 10. Сохраняем в кеш (best-effort)
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to cache slots: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for shop=%d, date=%s",
		len(slots), req.ShopID, req.Date.Format(domain.DateFormat))

	return uc.response(req, totalDuration, slots), nil
}

// loadConfig загружает конфигурацию бронирования барбершопа
// Если конфигурация не настроена, используются дефолтные значения
// с таймзоной из каталога
func (uc *UseCase) loadConfig(ctx context.Context, shopID int64, catalogTimezone string) (*domain.ShopConfig, error) {
	cfg, err := uc.configRepo.GetByShopID(ctx, shopID)
	if err != nil && !errors.Is(err, shopconfig.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
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
		uc.logger.Info("GetAvailableSlots: using default config for shop=%d", shopID)
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
		uc.logger.Error("GetAvailableSlots: failed to get shop rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get shop rules: %v", ErrInternal, err)
	}

	staffRules, err := uc.scheduleRepo.GetStaffRules(ctx, req.ShopID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff rules: %v", ErrInternal, err)
	}

	roster, err := uc.staffRepo.GetActiveByShop(ctx, req.ShopID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get staff roster: %v", err)
		return nil, fmt.Errorf("%w: failed to get staff roster: %v", ErrInternal, err)
	}

	// Границы запрошенного дня в таймзоне барбершопа, расширенные буфером:
	// запись, висящая хвостом на соседних сутках, тоже блокирует слоты
	dayFrom := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).
		Add(-time.Duration(cfg.BufferMinutes) * time.Minute)
	dayTo := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, 1).
		Add(time.Duration(cfg.BufferMinutes) * time.Minute)

	blocks, err := uc.timeBlockRepo.GetOverlappingRange(ctx, req.ShopID, dayFrom, dayTo)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time blocks: %v", err)
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
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
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

func (uc *UseCase) emptyResponse(req *Request, totalDuration int) *Response {
	return uc.response(req, totalDuration, []domain.AvailableSlot{})
}

func (uc *UseCase) response(req *Request, totalDuration int, slots []domain.AvailableSlot) *Response {
	return &Response{
		ShopID:          req.ShopID,
		Date:            req.Date,
		DurationMinutes: totalDuration,
		Slots:           slots,
	}
}
