package delete_time_block

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
	msgInvalidShopID     = "некорректный ID барбершопа"
	msgInvalidBlockID    = "некорректный ID блокировки"
	msgShopNotFound      = "барбершоп не найден"
	msgTimeBlockNotFound = "блокировка не найдена"
	msgAccessDenied      = "доступно только менеджерам барбершопа"
	msgUnauthorized      = "требуется аутентификация"
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

// Handle обрабатывает DELETE /api/v1/shops/{shopId}/time-blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("DeleteTimeBlock - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil || blockID <= 0 {
		h.logger.Warn("DeleteTimeBlock - invalid block ID: %s", vars["blockId"])
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.DeleteTimeBlock(r.Context(), shopID, blockID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, schedule.ErrTimeBlockNotFound):
			handlers.RespondNotFound(w, msgTimeBlockNotFound)
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("DeleteTimeBlock - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DeleteTimeBlock - time block %d deleted from shop %d by user %d", blockID, shopID, userID)
	handlers.RespondNoContent(w)
}
