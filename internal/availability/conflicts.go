package availability

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

// staffEligible проверяет, свободен ли мастер в интервале-кандидате.
// Чистый предикат без побочных эффектов.
//
// Мастер занят, если кандидат пересекается:
//  1. С блокировкой времени - персональной или общей для всех мастеров.
//  2. С активной записью этого мастера, расширенной буфером с обеих сторон.
//     Буфер применяется к существующей записи, а не к кандидату: так два
//     соседних слота не могут примкнуть к записи без настроенного зазора.
func staffEligible(
	staffID int64,
	candidate interval,
	blocks []domain.TimeBlock,
	appointments []domain.Appointment,
	buffer time.Duration,
) bool {
	for _, block := range blocks {
		if !block.AppliesTo(staffID) {
			continue
		}
		if candidate.overlaps(interval{Start: block.StartAt, End: block.EndAt}) {
			return false
		}
	}

	for _, appt := range appointments {
		if appt.StaffID != staffID || !appt.IsActive() {
			continue
		}

		reserved := interval{Start: appt.StartAt, End: appt.EndAt}.expand(buffer)
		if candidate.overlaps(reserved) {
			return false
		}
	}

	return true
}
