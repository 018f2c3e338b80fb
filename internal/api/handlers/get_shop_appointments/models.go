package get_shop_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/service/appointments/models"
)

// ParseQuery собирает запрос списка записей барбершопа из query-параметров
// Поддерживаются: staffId, startDate, endDate, status, includeInactive
func ParseQuery(shopID, userID int64, query url.Values) (*models.GetShopAppointmentsRequest, error) {
	req := &models.GetShopAppointmentsRequest{
		ShopID: shopID,
		UserID: userID,
	}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || staffID <= 0 {
			return nil, fmt.Errorf("invalid staffId: %q", raw)
		}
		req.StaffID = &staffID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %q", raw)
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %q", raw)
		}
		req.EndDate = &endDate
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("endDate is before startDate")
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive: %q", raw)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
