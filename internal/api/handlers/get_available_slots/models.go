package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	getAvailableSlots "github.com/barberhub/BH-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ShopID          int64           `json:"shopId"`
	Date            string          `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string  `json:"startTime"`
	StaffIDs  []int64 `json:"staffIds"`
}

// ToUseCaseRequest собирает запрос use case из параметров HTTP запроса
func ToUseCaseRequest(shopID int64, serviceIDsParam, dateParam string, staffID *int64) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateParam)
	if err != nil {
		return nil, err
	}

	serviceIDs, err := parseServiceIDs(serviceIDsParam)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ShopID:     shopID,
		ServiceIDs: serviceIDs,
		Date:       date,
		StaffID:    staffID,
	}, nil
}

// parseServiceIDs разбирает список ID услуг из query параметра вида "1,2,3"
func parseServiceIDs(param string) ([]int64, error) {
	parts := strings.Split(param, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, AvailableSlot{
			StartTime: slot.StartTime.String(),
			StaffIDs:  slot.StaffIDs,
		})
	}

	return &AvailableSlotsResponse{
		ShopID:          resp.ShopID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
