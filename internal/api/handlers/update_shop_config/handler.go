package update_shop_config

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
	msgInvalidConfig = "некорректные параметры конфигурации"
	msgShopNotFound  = "барбершоп не найден"
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

// Handle обрабатывает PUT /api/v1/shops/{shopId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("UpdateShopConfig - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("UpdateShopConfig - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.UpsertConfig(r.Context(), req.ToServiceRequest(shopID, userID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidConfig)
		default:
			h.logger.Error("UpdateShopConfig - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("UpdateShopConfig - config updated for shop %d by user %d", shopID, userID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
