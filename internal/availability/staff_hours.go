package availability

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

// ResolveStaffHours определяет эффективные рабочие часы мастера на указанную дату.
//
// Семантика наследования (важно сохранить в точности):
//   - У мастера нет НИ ОДНОГО персонального правила (на любой день недели) -
//     он работает по расписанию барбершопа.
//   - У мастера есть хотя бы одно персональное правило - его расписание
//     считается полностью кастомным: день без включенного правила означает
//     выходной, БЕЗ отката к часам барбершопа.
//
// Вызывающая сторона обязана убедиться, что барбершоп открыт в этот день:
// закрытие барбершопа - абсолютный гейт, персональные правила его не перебивают.
//
// Возвращает (границы, true, nil), если мастер работает в этот день.
func ResolveStaffHours(
	staffID int64,
	rulesByStaff map[int64][]domain.WeeklyHoursRule,
	shopHours DayHours,
	date time.Time,
) (DayHours, bool, error) {
	rules := rulesByStaff[staffID]

	// Персональных правил нет вовсе - наследуем часы барбершопа
	if len(rules) == 0 {
		return shopHours, true, nil
	}

	weekday := int(date.Weekday())

	for _, rule := range rules {
		if rule.DayOfWeek != weekday {
			continue
		}

		if !rule.IsEnabled {
			return DayHours{}, false, nil
		}

		hours, err := parseRuleBounds(rule)
		if err != nil {
			return DayHours{}, false, err
		}
		return hours, true, nil
	}

	// Кастомное расписание есть, но на сегодня правила нет - выходной
	return DayHours{}, false, nil
}

// resolvedStaff мастер с вычисленными на запрошенный день рабочими часами
// Часы резолвятся один раз на запрос, а не на каждый слот-кандидат
type resolvedStaff struct {
	ID    int64
	Hours DayHours
}

// resolveWorkingRoster вычисляет рабочие часы каждого мастера из подмножества ростера,
// сохраняя исходный порядок. Мастера с выходным в выдачу не попадают.
func resolveWorkingRoster(
	roster []domain.StaffMember,
	rulesByStaff map[int64][]domain.WeeklyHoursRule,
	shopHours DayHours,
	date time.Time,
) ([]resolvedStaff, error) {
	working := make([]resolvedStaff, 0, len(roster))

	for _, member := range roster {
		if !member.IsActive {
			continue
		}

		hours, ok, err := ResolveStaffHours(member.ID, rulesByStaff, shopHours, date)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		working = append(working, resolvedStaff{ID: member.ID, Hours: hours})
	}

	return working, nil
}
