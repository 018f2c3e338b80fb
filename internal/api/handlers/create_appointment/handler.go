package create_appointment

import (
	"errors"
	"net/http"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	createAppointment "github.com/barberhub/BH-BookingService/internal/usecase/create_appointment"
)

const (
	msgInvalidBody       = "некорректное тело запроса"
	msgInvalidDateTime   = "некорректная дата или время (ожидается дата YYYY-MM-DD и время HH:MM)"
	msgShopNotFound      = "барбершоп не найден"
	msgServiceNotFound   = "одна или несколько услуг не найдены"
	msgShopClosed        = "барбершоп закрыт в выбранную дату"
	msgDateInPast        = "нельзя записаться на прошедшую дату"
	msgDateTooFar        = "дата выходит за пределы окна бронирования"
	msgTooLateToBook     = "слишком поздно для записи на это время"
	msgSlotNotAvailable  = "выбранный слот недоступен"
	msgStaffNotAvailable = "выбранный мастер недоступен в это время"
	msgMisconfiguredShop = "расписание барбершопа настроено некорректно"
	msgInvalidInput      = "некорректные параметры запроса"
	msgUnauthorized      = "требуется аутентификация"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle обрабатывает POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("CreateAppointment - missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("CreateAppointment - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("CreateAppointment - invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, createAppointment.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, createAppointment.ErrShopClosed):
			handlers.RespondBadRequest(w, msgShopClosed)
		case errors.Is(err, createAppointment.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)
		case errors.Is(err, createAppointment.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, createAppointment.ErrStaffNotAvailable):
			handlers.RespondConflict(w, msgStaffNotAvailable)
		case errors.Is(err, createAppointment.ErrMisconfiguredShop):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMisconfiguredShop)
		case errors.Is(err, createAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("CreateAppointment - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("CreateAppointment - appointment %d created for client %d", resp.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
