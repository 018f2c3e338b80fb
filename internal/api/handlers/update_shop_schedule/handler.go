package update_shop_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	"github.com/barberhub/BH-BookingService/internal/service/schedule"
)

const (
	msgInvalidShopID = "некорректный ID барбершопа"
	msgInvalidBody   = "некорректное тело запроса"
	msgInvalidRules  = "некорректные правила расписания"
	msgShopNotFound  = "барбершоп не найден"
	msgStaffNotFound = "мастер не найден в этом барбершопе"
	msgAccessDenied  = "доступно только менеджерам барбершопа"
	msgUnauthorized  = "требуется аутентификация"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle обрабатывает PUT /api/v1/shops/{shopId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("UpdateShopSchedule - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req ReplaceScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("UpdateShopSchedule - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.ReplaceSchedule(r.Context(), req.ToServiceRequest(shopID, userID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, schedule.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRules)
		default:
			h.logger.Error("UpdateShopSchedule - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("UpdateShopSchedule - %s=%d schedule replaced in shop %d by user %d",
		req.OwnerType, req.OwnerID, shopID, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
