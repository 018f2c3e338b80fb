package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	apptRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/appointment"
	catalogClient "github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogServiceClient
	publisher       EventPublisher        // nil, если события отключены
	cache           SlotsCacheInvalidator // nil, если кеш отключен
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	publisher EventPublisher,
	cache SlotsCacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		publisher:       publisher,
		cache:           cache,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - пользователь может видеть только свою запись
// или если он является менеджером барбершопа
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appts, err := s.appointmentRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%d", len(appts), req.ClientID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetShopAppointments получает записи барбершопа с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, периоду, статусу и включению неактивных записей
// Доступно только менеджерам барбершопа
func (s *Service) GetShopAppointments(ctx context.Context, req *models.GetShopAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetShopAppointments: fetching appointments for shop=%d, user=%d", req.ShopID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.ShopID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetShopAppointments: invalid filter for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetByShopWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetShopAppointments: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: GetShopAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetShopAppointments: successfully fetched %d appointments for shop=%d", len(appts), req.ShopID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись (cancelled_by_client)
// Менеджер может отменить любую запись барбершопа (cancelled_by_shop)
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Определяем статус отмены в зависимости от прав доступа
	var cancelStatus domain.AppointmentStatus
	if appt.ClientID == req.UserID {
		cancelStatus = domain.StatusCancelledByClient
	} else {
		if err := s.checkManagerAccess(ctx, appt.ShopID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByShop
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d with status=%s", appointmentID, cancelStatus)

	// Событие и сброс кеша: освободившийся слот должен сразу попасть в выдачу
	s.notifyCancelled(ctx, appt)

	return nil
}

// UpdateStatus обновляет статус записи (in_progress, completed, no_show)
// Доступно только менеджерам барбершопа
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, userID int64, status string) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", appointmentID, status, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, appt.ShopID, userID); err != nil {
		return nil, err
	}

	newStatus, err := models.ToDomainAppointmentStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", status, appointmentID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)

	// no_show освобождает слот - сбрасываем кеш дня
	if newStatus == domain.StatusNoShow && s.cache != nil {
		s.cache.InvalidateDay(ctx, appt.ShopID, appt.StartAt)
	}

	appt.Status = newStatus
	return models.FromDomainAppointment(appt), nil
}

// Вспомогательные методы

// notifyCancelled публикует событие отмены и сбрасывает кеш слотов
// Ошибки здесь не фатальны: отмена уже выполнена
func (s *Service) notifyCancelled(ctx context.Context, appt *domain.Appointment) {
	if s.publisher != nil {
		event := events.AppointmentEvent{
			Type:          events.TypeAppointmentCancelled,
			AppointmentID: appt.ID,
			ShopID:        appt.ShopID,
			ClientID:      appt.ClientID,
			StaffID:       appt.StaffID,
			StartAt:       appt.StartAt,
			EndAt:         appt.EndAt,
			OccurredAt:    time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Cancel: failed to publish event: %v", err)
		}
	}

	if s.cache != nil {
		s.cache.InvalidateDay(ctx, appt.ShopID, appt.StartAt)
	}
}

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// Клиент может видеть свою запись; менеджер барбершопа - любую запись барбершопа
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.ClientID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, appt.ShopID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

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
