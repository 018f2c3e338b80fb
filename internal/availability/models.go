package availability

import (
	"time"

	"github.com/barberhub/BH-BookingService/internal/domain"
)

// DayHours границы рабочего дня в минутах с начала суток
type DayHours struct {
	OpenMinutes  int
	CloseMinutes int
}

// Span возвращает длину рабочего дня в минутах
func (h DayHours) Span() int {
	return h.CloseMinutes - h.OpenMinutes
}

// RequestedStaff выбор мастера в запросе: любой или конкретный
// Разворачивается в подмножество ростера один раз в начале генерации
type RequestedStaff struct {
	staffID *int64
}

// AnyStaff возвращает выбор "любой мастер"
func AnyStaff() RequestedStaff {
	return RequestedStaff{}
}

// SpecificStaff возвращает выбор конкретного мастера
func SpecificStaff(id int64) RequestedStaff {
	return RequestedStaff{staffID: &id}
}

// IsAny возвращает true для выбора "любой мастер"
func (r RequestedStaff) IsAny() bool {
	return r.staffID == nil
}

// StaffID возвращает ID выбранного мастера (валиден только при !IsAny())
func (r RequestedStaff) StaffID() int64 {
	if r.staffID == nil {
		return 0
	}
	return *r.staffID
}

// Input входные данные движка генерации слотов
// Движок - чистая функция: все данные загружаются вызывающей стороной заранее,
// текущее время передается явно и никогда не читается изнутри
type Input struct {
	Config       domain.ShopConfig
	ShopRules    []domain.WeeklyHoursRule
	StaffRules   map[int64][]domain.WeeklyHoursRule // Персональные правила, сгруппированные по мастеру
	Roster       []domain.StaffMember               // Активный состав мастеров (порядок сохраняется в выдаче)
	TimeBlocks   []domain.TimeBlock                 // Блокировки, пересекающие запрошенный день
	Appointments []domain.Appointment               // Активные записи, пересекающие запрошенный день

	Date            time.Time      // Запрошенный день (важны только год/месяц/число)
	DurationMinutes int            // Суммарная длительность пакета услуг
	Staff           RequestedStaff // Выбор мастера
	Now             time.Time      // Текущий момент (инжектируется для тестируемости)
}
