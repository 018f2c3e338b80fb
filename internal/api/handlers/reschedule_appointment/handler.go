package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	rescheduleAppointment "github.com/barberhub/BH-BookingService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidBody          = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректная дата или время (ожидается дата YYYY-MM-DD и время HH:MM)"
	msgAppointmentNotFound  = "запись не найдена"
	msgShopNotFound         = "барбершоп не найден"
	msgAccessDenied         = "нет прав на перенос этой записи"
	msgCannotBeRescheduled  = "запись нельзя перенести в текущем статусе"
	msgShopClosed           = "барбершоп закрыт в выбранную дату"
	msgDateInPast           = "нельзя перенести запись на прошедшую дату"
	msgDateTooFar           = "дата выходит за пределы окна бронирования"
	msgTooLateToBook        = "слишком поздно для переноса на это время"
	msgSlotNotAvailable     = "выбранный слот недоступен"
	msgStaffNotAvailable    = "выбранный мастер недоступен в это время"
	msgMisconfiguredShop    = "расписание барбершопа настроено некорректно"
	msgInvalidInput         = "некорректные параметры запроса"
	msgUnauthorized         = "требуется аутентификация"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle обрабатывает POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("RescheduleAppointment - invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("RescheduleAppointment - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(appointmentID, clientID)
	if err != nil {
		h.logger.Warn("RescheduleAppointment - invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, rescheduleAppointment.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, rescheduleAppointment.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, rescheduleAppointment.ErrCannotBeRescheduled):
			handlers.RespondConflict(w, msgCannotBeRescheduled)
		case errors.Is(err, rescheduleAppointment.ErrShopClosed):
			handlers.RespondBadRequest(w, msgShopClosed)
		case errors.Is(err, rescheduleAppointment.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, rescheduleAppointment.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)
		case errors.Is(err, rescheduleAppointment.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)
		case errors.Is(err, rescheduleAppointment.ErrSlotNotAvailable):
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, rescheduleAppointment.ErrStaffNotAvailable):
			handlers.RespondConflict(w, msgStaffNotAvailable)
		case errors.Is(err, rescheduleAppointment.ErrMisconfiguredShop):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMisconfiguredShop)
		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("RescheduleAppointment - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("RescheduleAppointment - appointment %d moved to %s %s", resp.ID, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
