package get_shop_config

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
)

const (
	msgInvalidShopID = "некорректный ID барбершопа"
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

// Handle обрабатывает GET /api/v1/shops/{shopId}/config
// Публичный эндпоинт: при отсутствии настроек отдаются дефолты с isDefault=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("GetShopConfig - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	resp, err := h.service.GetConfig(r.Context(), shopID)
	if err != nil {
		h.logger.Error("GetShopConfig - internal error: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
