package cancel_appointment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	"github.com/barberhub/BH-BookingService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidBody          = "некорректное тело запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "нет прав на отмену этой записи"
	msgCannotCancel         = "запись нельзя отменить в текущем статусе"
	msgUnauthorized         = "требуется аутентификация"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle обрабатывает PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("CancelAppointment - invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Тело опционально: причину отмены можно не указывать
	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("CancelAppointment - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.service.Cancel(r.Context(), appointmentID, req.ToServiceRequest(userID)); err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		case errors.Is(err, appointments.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, appointments.ErrCannotCancel):
			handlers.RespondConflict(w, msgCannotCancel)
		default:
			h.logger.Error("CancelAppointment - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("CancelAppointment - appointment %d cancelled by user %d", appointmentID, userID)
	handlers.RespondNoContent(w)
}
