package list_time_blocks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/service/schedule"
	"github.com/barberhub/BH-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidShopID = "некорректный ID барбершопа"
	msgInvalidPeriod = "некорректный период (ожидаются параметры from и to)"
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

// Handle обрабатывает GET /api/v1/shops/{shopId}/time-blocks
// Параметры from/to принимаются как дата (YYYY-MM-DD) или метка RFC 3339
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil || shopID <= 0 {
		h.logger.Warn("ListTimeBlocks - invalid shop ID: %s", vars["shopId"])
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	query := r.URL.Query()
	from, err := parseTimeParam(query.Get("from"), false)
	if err != nil {
		h.logger.Warn("ListTimeBlocks - invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	to, err := parseTimeParam(query.Get("to"), true)
	if err != nil {
		h.logger.Warn("ListTimeBlocks - invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	req := &models.ListTimeBlocksRequest{
		UserID: userID,
		ShopID: shopID,
		From:   from,
		To:     to,
	}

	resp, err := h.service.ListTimeBlocks(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)
		default:
			h.logger.Error("ListTimeBlocks - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// parseTimeParam разбирает параметр периода
// Голая дата для верхней границы трактуется как конец дня
func parseTimeParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	t, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
