package create_time_block

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
	msgInvalidShopID   = "некорректный ID барбершопа"
	msgInvalidBody     = "некорректное тело запроса"
	msgInvalidInterval = "некорректный интервал блокировки"
	msgShopNotFound    = "барбершоп не найден"
	msgStaffNotFound   = "мастер не найден в этом барбершопе"
	msgAccessDenied    = "доступно только менеджерам барбершопа"
	msgUnauthorized    = "требуется аутентификация"
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

// Handle обрабатывает POST /api/v1/shops/{shopId}/time-blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("CreateTimeBlock - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req CreateTimeBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("CreateTimeBlock - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.CreateTimeBlock(r.Context(), req.ToServiceRequest(shopID, userID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, schedule.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInterval)
		default:
			h.logger.Error("CreateTimeBlock - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("CreateTimeBlock - time block %d created in shop %d by user %d", resp.ID, shopID, userID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
