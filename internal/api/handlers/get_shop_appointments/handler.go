package get_shop_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	"github.com/barberhub/BH-BookingService/internal/service/appointments"
)

const (
	msgInvalidShopID = "некорректный ID барбершопа"
	msgInvalidQuery  = "некорректные параметры фильтрации"
	msgShopNotFound  = "барбершоп не найден"
	msgAccessDenied  = "доступно только менеджерам барбершопа"
	msgUnauthorized  = "требуется аутентификация"
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

// Handle обрабатывает GET /api/v1/shops/{shopId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("GetShopAppointments - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	req, err := ParseQuery(shopID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GetShopAppointments - invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	resp, err := h.service.GetShopAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, appointments.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)
		default:
			h.logger.Error("GetShopAppointments - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
