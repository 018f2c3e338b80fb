package domain

import "github.com/barberhub/BH-BookingService/pkg/types"

// AvailableSlot represents a time slot available for booking
// Слот - это value object: он пересчитывается на каждый запрос и нигде не хранится
type AvailableSlot struct {
	StartTime types.TimeString
	StaffIDs  []int64 // Мастера, которые могут выполнить услугу в этом слоте (в порядке ростера)
}

// HasStaff returns true if the staff member is eligible for this slot
func (s *AvailableSlot) HasStaff(staffID int64) bool {
	for _, id := range s.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}
