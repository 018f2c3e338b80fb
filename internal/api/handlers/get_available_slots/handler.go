package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/barberhub/BH-BookingService/internal/api/handlers"
	"github.com/barberhub/BH-BookingService/internal/domain"
	getAvailableSlots "github.com/barberhub/BH-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidShopID      = "некорректный ID барбершопа"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgMissingServiceIDs  = "список услуг обязателен"
	msgInvalidServiceIDs  = "некорректный список услуг, ожидается serviceIds=1,2,3"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgShopNotFound       = "барбершоп не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgMisconfiguredShop  = "расписание барбершопа настроено некорректно"
	msgInvalidRequestData = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/available-slots
// Query params: serviceIds (required, "1,2,3"), date (required, YYYY-MM-DD),
// staffId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	serviceIDsParam := r.URL.Query().Get("serviceIds")
	if serviceIDsParam == "" {
		h.logger.Warn("GET /shops/{id}/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		h.logger.Warn("GET /shops/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	var staffID *int64
	if staffIDParam := r.URL.Query().Get("staffId"); staffIDParam != "" {
		id, err := strconv.ParseInt(staffIDParam, 10, 64)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid staff ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStaffID)
			return
		}
		staffID = &id
	}

	if _, err := time.Parse(domain.DateFormat, dateParam); err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(shopID, serviceIDsParam, dateParam, staffID)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Service not found: shop_id=%d, services=%s",
				shopID, serviceIDsParam)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid input: shop_id=%d, error=%v", shopID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestData)

		case errors.Is(err, getAvailableSlots.ErrMisconfiguredShop):
			h.logger.Error("GET /shops/{id}/available-slots - Misconfigured shop: shop_id=%d, error=%v", shopID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMisconfiguredShop)

		default:
			h.logger.Error("GET /shops/{id}/available-slots - Failed to get slots: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/available-slots - Slots retrieved successfully: shop_id=%d, date=%s, slots_count=%d",
		shopID, dateParam, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
