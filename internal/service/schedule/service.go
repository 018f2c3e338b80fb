package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	staffRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/staff"
	timeblockRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/timeblock"
	catalogClient "github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// Service сервис для управления расписаниями, конфигурацией и блокировками
type Service struct {
	scheduleRepo  ScheduleRepository
	configRepo    ConfigRepository
	timeBlockRepo TimeBlockRepository
	staffRepo     StaffRepository
	catalogClient CatalogServiceClient
	txManager     TransactionManager
	cache         SlotsCacheInvalidator // nil, если кеш отключен
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	timeBlockRepo TimeBlockRepository,
	staffRepo StaffRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	cache SlotsCacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:  scheduleRepo,
		configRepo:    configRepo,
		timeBlockRepo: timeBlockRepo,
		staffRepo:     staffRepo,
		catalogClient: catalogClient,
		txManager:     txManager,
		cache:         cache,
		logger:        logger,
	}
}

// GetSchedule получает расписание барбершопа: часы работы и персональные часы мастеров
// Публичный метод - доступен всем
func (s *Service) GetSchedule(ctx context.Context, shopID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for shop=%d", shopID)

	shopRules, err := s.scheduleRepo.GetShopRules(ctx, shopID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	staffRules, err := s.scheduleRepo.GetStaffRules(ctx, shopID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	staff := make(map[int64][]models.WeeklyRuleResponse, len(staffRules))
	for staffID, rules := range staffRules {
		staff[staffID] = models.FromDomainRules(rules)
	}

	return &models.ScheduleResponse{
		ShopID:     shopID,
		ShopRules:  models.FromDomainRules(shopRules),
		StaffRules: staff,
	}, nil
}

// ReplaceSchedule полностью заменяет расписание владельца (барбершопа или мастера)
// Отсутствующие в запросе дни недели остаются без правил
// Доступно только менеджерам барбершопа
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.OwnerScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing %s=%d schedule in shop=%d by user=%d",
		req.OwnerType, req.OwnerID, req.ShopID, req.UserID)

	ownerType, err := s.validateScheduleRequest(req)
	if err != nil {
		s.logger.Warn("ReplaceSchedule: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, req.ShopID, req.UserID); err != nil {
		return nil, err
	}

	// Мастер должен существовать и принадлежать барбершопу
	if ownerType == domain.OwnerStaff {
		if err := s.checkStaffBelongsToShop(ctx, req.OwnerID, req.ShopID); err != nil {
			return nil, err
		}
	}

	rules := req.ToDomainRules(ownerType)

	// Замена выполняется в транзакции: delete + insert должны быть атомарными
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceOwnerRules(txCtx, req.ShopID, ownerType, req.OwnerID, rules)
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: successfully replaced %d rules for %s=%d in shop=%d",
		len(rules), req.OwnerType, req.OwnerID, req.ShopID)

	// Расписание влияет на доступность всех дней - сбрасываем кеш барбершопа целиком
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, req.ShopID)
	}

	return &models.OwnerScheduleResponse{
		ShopID:    req.ShopID,
		OwnerType: req.OwnerType,
		OwnerID:   req.OwnerID,
		Rules:     models.FromDomainRules(rules),
	}, nil
}

// GetConfig получает конфигурацию бронирования барбершопа
// Если конфигурация не настроена, возвращает дефолтные значения
// Публичный метод - доступен всем
func (s *Service) GetConfig(ctx context.Context, shopID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for shop=%d", shopID)

	cfg, err := s.configRepo.GetByShopID(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopconfig.ErrConfigNotFound) {
			s.logger.Info("GetConfig: shop=%d has no config, returning defaults", shopID)
			return models.FromDomainConfig(&domain.ShopConfig{
				ShopID:              shopID,
				Timezone:            domain.DefaultTimezone,
				SlotIntervalMinutes: domain.DefaultSlotIntervalMinutes,
				BufferMinutes:       domain.DefaultBufferMinutes,
				BookingWindowDays:   domain.DefaultBookingWindowDays,
				MinAdvanceHours:     domain.DefaultMinAdvanceHours,
			}, true), nil
		}
		s.logger.Error("GetConfig: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg, false), nil
}

// UpsertConfig создает или обновляет конфигурацию бронирования барбершопа
// Доступно только менеджерам барбершопа
func (s *Service) UpsertConfig(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpsertConfig: upserting config for shop=%d by user=%d", req.ShopID, req.UserID)

	if err := s.validateConfigRequest(req); err != nil {
		s.logger.Warn("UpsertConfig: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, req.ShopID, req.UserID); err != nil {
		return nil, err
	}

	saved, err := s.configRepo.Upsert(ctx, req.ToDomainConfig())
	if err != nil {
		s.logger.Error("UpsertConfig: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: UpsertConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertConfig: successfully upserted config for shop=%d", req.ShopID)

	// Конфигурация меняет шаг сетки, буфер и горизонт - сбрасываем кеш целиком
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, req.ShopID)
	}

	return models.FromDomainConfig(saved, false), nil
}

// CreateTimeBlock создает блокировку времени (отпуск, обед, технический перерыв)
// Доступно только менеджерам барбершопа
func (s *Service) CreateTimeBlock(ctx context.Context, req *models.CreateTimeBlockRequest) (*models.TimeBlockResponse, error) {
	s.logger.Info("CreateTimeBlock: creating block for shop=%d, staff=%v by user=%d",
		req.ShopID, req.StaffID, req.UserID)

	if err := s.validateTimeBlockRequest(req); err != nil {
		s.logger.Warn("CreateTimeBlock: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, req.ShopID, req.UserID); err != nil {
		return nil, err
	}

	if req.StaffID != nil {
		if err := s.checkStaffBelongsToShop(ctx, *req.StaffID, req.ShopID); err != nil {
			return nil, err
		}
	}

	created, err := s.timeBlockRepo.Create(ctx, req.ToDomainTimeBlock())
	if err != nil {
		s.logger.Error("CreateTimeBlock: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: CreateTimeBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeBlock: successfully created block id=%d", created.ID)

	if s.cache != nil {
		s.cache.InvalidateShop(ctx, req.ShopID)
	}

	return models.FromDomainTimeBlock(created), nil
}

// DeleteTimeBlock удаляет блокировку времени
// Доступно только менеджерам барбершопа
func (s *Service) DeleteTimeBlock(ctx context.Context, shopID, blockID, userID int64) error {
	s.logger.Info("DeleteTimeBlock: deleting block id=%d in shop=%d by user=%d", blockID, shopID, userID)

	block, err := s.timeBlockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, timeblockRepo.ErrTimeBlockNotFound) {
			s.logger.Warn("DeleteTimeBlock: block id=%d not found", blockID)
			return ErrTimeBlockNotFound
		}
		s.logger.Error("DeleteTimeBlock: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteTimeBlock - repository error: %v", ErrInternal, err)
	}

	// Блокировка должна принадлежать барбершопу из запроса
	if block.ShopID != shopID {
		s.logger.Warn("DeleteTimeBlock: block id=%d belongs to shop=%d, not shop=%d", blockID, block.ShopID, shopID)
		return ErrTimeBlockNotFound
	}

	if err := s.checkManagerAccess(ctx, shopID, userID); err != nil {
		return err
	}

	if err := s.timeBlockRepo.Delete(ctx, blockID); err != nil {
		if errors.Is(err, timeblockRepo.ErrTimeBlockNotFound) {
			return ErrTimeBlockNotFound
		}
		s.logger.Error("DeleteTimeBlock: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteTimeBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteTimeBlock: successfully deleted block id=%d", blockID)

	if s.cache != nil {
		s.cache.InvalidateShop(ctx, shopID)
	}

	return nil
}

// ListTimeBlocks получает блокировки барбершопа, пересекающие период
// Доступно только менеджерам барбершопа
func (s *Service) ListTimeBlocks(ctx context.Context, req *models.ListTimeBlocksRequest) (*models.TimeBlockListResponse, error) {
	s.logger.Info("ListTimeBlocks: fetching blocks for shop=%d, period=%s to %s",
		req.ShopID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	if req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: invalid period", ErrInvalidInput)
	}

	if err := s.checkManagerAccess(ctx, req.ShopID, req.UserID); err != nil {
		return nil, err
	}

	blocks, err := s.timeBlockRepo.GetOverlappingRange(ctx, req.ShopID, req.From, req.To)
	if err != nil {
		s.logger.Error("ListTimeBlocks: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ListTimeBlocks - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTimeBlockList(blocks), nil
}

// Валидация

func (s *Service) validateScheduleRequest(req *models.ReplaceScheduleRequest) (domain.OwnerType, error) {
	ownerType := domain.OwnerType(req.OwnerType)
	if ownerType != domain.OwnerShop && ownerType != domain.OwnerStaff {
		return "", fmt.Errorf("%w: ownerType must be %q or %q", ErrInvalidInput, domain.OwnerShop, domain.OwnerStaff)
	}

	if ownerType == domain.OwnerShop && req.OwnerID != req.ShopID {
		return "", fmt.Errorf("%w: ownerID must match shopID for shop rules", ErrInvalidInput)
	}

	seen := make(map[int]bool, len(req.Rules))
	for _, rule := range req.Rules {
		if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
			return "", fmt.Errorf("%w: dayOfWeek must be in [0, 6]", ErrInvalidInput)
		}
		if seen[rule.DayOfWeek] {
			return "", fmt.Errorf("%w: duplicate rule for dayOfWeek=%d", ErrInvalidInput, rule.DayOfWeek)
		}
		seen[rule.DayOfWeek] = true

		open, err := types.NewTimeStringFromString(rule.OpenTime)
		if err != nil {
			return "", fmt.Errorf("%w: invalid openTime %q", ErrInvalidInput, rule.OpenTime)
		}
		close, err := types.NewTimeStringFromString(rule.CloseTime)
		if err != nil {
			return "", fmt.Errorf("%w: invalid closeTime %q", ErrInvalidInput, rule.CloseTime)
		}
		if !open.IsBefore(close) {
			return "", fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
		}
	}

	return ownerType, nil
}

func (s *Service) validateConfigRequest(req *models.UpsertConfigRequest) error {
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
	}

	if req.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || req.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be in [%d, %d]",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	if req.BufferMinutes < domain.MinBufferMinutes || req.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be in [%d, %d]",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}

	if req.BookingWindowDays < domain.MinBookingWindowDays || req.BookingWindowDays > domain.MaxBookingWindowDays {
		return fmt.Errorf("%w: bookingWindowDays must be in [%d, %d]",
			ErrInvalidInput, domain.MinBookingWindowDays, domain.MaxBookingWindowDays)
	}

	if req.MinAdvanceHours < domain.MinAdvanceHoursLimit || req.MinAdvanceHours > domain.MaxAdvanceHoursLimit {
		return fmt.Errorf("%w: minAdvanceHours must be in [%d, %d]",
			ErrInvalidInput, domain.MinAdvanceHoursLimit, domain.MaxAdvanceHoursLimit)
	}

	return nil
}

func (s *Service) validateTimeBlockRequest(req *models.CreateTimeBlockRequest) error {
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}

	if !req.StartAt.Before(req.EndAt) {
		return fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInput)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	return nil
}

// Вспомогательные методы

// checkManagerAccess проверяет, что пользователь является менеджером барбершопа
func (s *Service) checkManagerAccess(ctx context.Context, shopID int64, userID int64) error {
	shop, err := s.catalogClient.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrShopNotFound) {
			s.logger.Warn("checkManagerAccess: shop id=%d not found", shopID)
			return ErrShopNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get shop id=%d: %v", shopID, err)
		return fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	if !shop.IsManagedBy(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of shop=%d", userID, shopID)
		return ErrAccessDenied
	}

	return nil
}

// checkStaffBelongsToShop проверяет, что мастер существует и принадлежит барбершопу
func (s *Service) checkStaffBelongsToShop(ctx context.Context, staffID, shopID int64) error {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("checkStaffBelongsToShop: staff id=%d not found", staffID)
			return ErrStaffNotFound
		}
		s.logger.Error("checkStaffBelongsToShop: repository error for staff id=%d: %v", staffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if staff.ShopID != shopID {
		s.logger.Warn("checkStaffBelongsToShop: staff id=%d belongs to shop=%d, not shop=%d",
			staffID, staff.ShopID, shopID)
		return ErrStaffNotFound
	}

	return nil
}
