package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/pkg/ptr"
	"github.com/barberhub/BH-BookingService/pkg/types"
)

// Понедельник 2 июня 2025
var testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func testConfig() domain.ShopConfig {
	return domain.ShopConfig{
		ShopID:              1,
		Timezone:            "UTC",
		SlotIntervalMinutes: 15,
		BufferMinutes:       0,
		BookingWindowDays:   30,
		MinAdvanceHours:     0,
	}
}

// shopRulesMonFri часы работы Пн-Пт 09:00-17:00
func shopRulesMonFri() []domain.WeeklyHoursRule {
	rules := make([]domain.WeeklyHoursRule, 0, 5)
	for day := 1; day <= 5; day++ {
		rules = append(rules, domain.WeeklyHoursRule{
			ShopID:    1,
			OwnerType: domain.OwnerShop,
			OwnerID:   1,
			DayOfWeek: day,
			OpenTime:  "09:00",
			CloseTime: "17:00",
			IsEnabled: true,
		})
	}
	return rules
}

func staffRule(staffID int64, day int, open, close types.TimeString, enabled bool) domain.WeeklyHoursRule {
	return domain.WeeklyHoursRule{
		ShopID:    1,
		OwnerType: domain.OwnerStaff,
		OwnerID:   staffID,
		DayOfWeek: day,
		OpenTime:  open,
		CloseTime: close,
		IsEnabled: enabled,
	}
}

func roster(ids ...int64) []domain.StaffMember {
	members := make([]domain.StaffMember, 0, len(ids))
	for _, id := range ids {
		members = append(members, domain.StaffMember{ID: id, ShopID: 1, IsActive: true})
	}
	return members
}

func appointmentAt(staffID int64, day time.Time, startMin, endMin int) domain.Appointment {
	return domain.Appointment{
		ShopID:  1,
		StaffID: staffID,
		StartAt: day.Add(time.Duration(startMin) * time.Minute),
		EndAt:   day.Add(time.Duration(endMin) * time.Minute),
		Status:  domain.StatusConfirmed,
	}
}

func baseInput() Input {
	return Input{
		Config:          testConfig(),
		ShopRules:       shopRulesMonFri(),
		StaffRules:      map[int64][]domain.WeeklyHoursRule{},
		Roster:          roster(101),
		Date:            testMonday,
		DurationMinutes: 30,
		Staff:           AnyStaff(),
		Now:             testMonday.Add(-16 * time.Hour), // накануне вечером
	}
}

func slotTimes(slots []domain.AvailableSlot) []string {
	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.StartTime.String())
	}
	return times
}

func findSlot(t *testing.T, slots []domain.AvailableSlot, startTime types.TimeString) *domain.AvailableSlot {
	t.Helper()
	for i := range slots {
		if slots[i].StartTime == startTime {
			return &slots[i]
		}
	}
	return nil
}

func TestGenerateSlots_ShopClosedDay(t *testing.T) {
	in := baseInput()
	// Воскресенье 1 июня - правила на этот день нет
	in.Date = testMonday.AddDate(0, 0, -1)

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_ShopRuleDisabled(t *testing.T) {
	in := baseInput()
	in.ShopRules = append(in.ShopRules, domain.WeeklyHoursRule{
		OwnerType: domain.OwnerShop,
		OwnerID:   1,
		DayOfWeek: 0,
		OpenTime:  "10:00",
		CloseTime: "16:00",
		IsEnabled: false,
	})
	in.Date = testMonday.AddDate(0, 0, -1) // воскресенье

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_OpenDayFullAvailability(t *testing.T) {
	in := baseInput()

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	// 09:00..16:30 с шагом 15 минут: последний старт 16:30 (16:30 + 30 мин = 17:00)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "16:30", slots[len(slots)-1].StartTime.String())
	assert.Len(t, slots, 31)

	for _, slot := range slots {
		assert.Equal(t, []int64{101}, slot.StaffIDs)
	}
}

func TestGenerateSlots_SlotsAscendingAndStaffOrderStable(t *testing.T) {
	in := baseInput()
	in.Roster = roster(101, 102, 103)

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].StartTime.IsBefore(slots[i].StartTime),
			"слоты должны идти по возрастанию времени")
	}
	for _, slot := range slots {
		assert.Equal(t, []int64{101, 102, 103}, slot.StaffIDs,
			"порядок мастеров должен повторять порядок ростера")
	}
}

func TestGenerateSlots_ServiceDoesNotFitInDay(t *testing.T) {
	in := baseInput()
	in.DurationMinutes = 8 * 60 // ровно вся смена
	in.Config.BufferMinutes = 10

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots, "услуга с буфером длиннее рабочего дня - слотов нет")
}

func TestGenerateSlots_ServiceExactlyFitsDay(t *testing.T) {
	in := baseInput()
	in.DurationMinutes = 8 * 60

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
}

func TestGenerateSlots_StaffInheritance(t *testing.T) {
	// Мастер без единого персонального правила работает по часам барбершопа
	in := baseInput()

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "16:30", slots[len(slots)-1].StartTime.String())
}

func TestGenerateSlots_StaffOverrideExclusivity(t *testing.T) {
	// У мастера есть правило на вторник, но НЕ на понедельник:
	// в понедельник он выходной, даже если барбершоп открыт
	in := baseInput()
	in.StaffRules = map[int64][]domain.WeeklyHoursRule{
		101: {staffRule(101, 2, "10:00", "15:00", true)},
	}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots, "кастомное расписание без правила на сегодня означает выходной")
}

func TestGenerateSlots_StaffCustomHoursNarrowerThanShop(t *testing.T) {
	in := baseInput()
	in.StaffRules = map[int64][]domain.WeeklyHoursRule{
		101: {staffRule(101, 1, "11:00", "14:00", true)},
	}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	require.NotEmpty(t, slots)
	// Слоты генерируются по часам барбершопа, но мастер подходит только внутри своих
	assert.Equal(t, "11:00", slots[0].StartTime.String())
	assert.Equal(t, "13:30", slots[len(slots)-1].StartTime.String())
}

func TestGenerateSlots_StaffDisabledRuleToday(t *testing.T) {
	in := baseInput()
	in.StaffRules = map[int64][]domain.WeeklyHoursRule{
		101: {
			staffRule(101, 1, "09:00", "17:00", false), // понедельник выключен
			staffRule(101, 2, "09:00", "17:00", true),
		},
	}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_BufferCorrectness(t *testing.T) {
	// Запись 10:00-10:30 с буфером 10 минут резервирует 09:50-10:40:
	// кандидат 10:30 недоступен, 10:40 доступен (граница буфера исключающая)
	in := baseInput()
	in.Config.SlotIntervalMinutes = 10
	in.Config.BufferMinutes = 10
	in.Appointments = []domain.Appointment{
		appointmentAt(101, testMonday, 10*60, 10*60+30),
	}

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	assert.Nil(t, findSlot(t, slots, "10:30"), "слот впритык к записи должен блокироваться буфером")
	assert.NotNil(t, findSlot(t, slots, "10:40"), "слот ровно через буфер после записи доступен")
	assert.Nil(t, findSlot(t, slots, "09:30"), "слот, упирающийся в буфер перед записью, недоступен")
	assert.NotNil(t, findSlot(t, slots, "09:20"), "слот, заканчивающийся ровно на границе буфера, доступен")
}

func TestGenerateSlots_InactiveAppointmentsIgnored(t *testing.T) {
	in := baseInput()
	appt := appointmentAt(101, testMonday, 10*60, 11*60)
	appt.Status = domain.StatusCancelledByClient
	in.Appointments = []domain.Appointment{appt}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.NotNil(t, findSlot(t, slots, "10:00"), "отменённая запись не занимает время мастера")
}

func TestGenerateSlots_MinAdvance(t *testing.T) {
	// now = 09:00, минимальное время до записи 2 часа:
	// слот 10:30 исключен, 11:00 включен
	in := baseInput()
	in.Config.MinAdvanceHours = 2
	in.Config.SlotIntervalMinutes = 30
	in.Now = testMonday.Add(9 * time.Hour)

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	assert.Nil(t, findSlot(t, slots, "10:30"))
	assert.NotNil(t, findSlot(t, slots, "11:00"))
	require.NotEmpty(t, slots)
	assert.Equal(t, "11:00", slots[0].StartTime.String())
}

func TestGenerateSlots_PastDayFullyFiltered(t *testing.T) {
	in := baseInput()
	in.Now = testMonday.AddDate(0, 0, 3) // запрошенный день уже прошел

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_MultiStaffAggregation(t *testing.T) {
	// Мастер 101 занят 10:00-11:00, мастер 102 свободен весь день:
	// слот 10:15 должен содержать только 102
	in := baseInput()
	in.Roster = roster(101, 102)
	in.Appointments = []domain.Appointment{
		appointmentAt(101, testMonday, 10*60, 11*60),
	}

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	slot := findSlot(t, slots, "10:15")
	require.NotNil(t, slot)
	assert.Equal(t, []int64{102}, slot.StaffIDs)

	free := findSlot(t, slots, "14:00")
	require.NotNil(t, free)
	assert.Equal(t, []int64{101, 102}, free.StaffIDs)
}

func TestGenerateSlots_GlobalTimeBlock(t *testing.T) {
	// Общая блокировка действует на всех мастеров
	in := baseInput()
	in.Roster = roster(101, 102)
	in.TimeBlocks = []domain.TimeBlock{
		{
			ShopID:  1,
			StaffID: nil,
			StartAt: testMonday.Add(12 * time.Hour),
			EndAt:   testMonday.Add(13 * time.Hour),
		},
	}

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	assert.Nil(t, findSlot(t, slots, "12:00"))
	assert.Nil(t, findSlot(t, slots, "12:45"), "слот, заходящий в блокировку хвостом, недоступен")
	assert.NotNil(t, findSlot(t, slots, "13:00"), "блокировка полуинтервальная - 13:00 свободен")
}

func TestGenerateSlots_StaffTimeBlock(t *testing.T) {
	in := baseInput()
	in.Roster = roster(101, 102)
	in.TimeBlocks = []domain.TimeBlock{
		{
			ShopID:  1,
			StaffID: ptr.Ptr(int64(101)),
			StartAt: testMonday.Add(12 * time.Hour),
			EndAt:   testMonday.Add(13 * time.Hour),
		},
	}

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	slot := findSlot(t, slots, "12:00")
	require.NotNil(t, slot)
	assert.Equal(t, []int64{102}, slot.StaffIDs)
}

func TestGenerateSlots_MultiDayTimeBlock(t *testing.T) {
	// Отпуск с прошлой пятницы по вторник накрывает весь понедельник
	in := baseInput()
	in.TimeBlocks = []domain.TimeBlock{
		{
			ShopID:  1,
			StaffID: nil,
			StartAt: testMonday.AddDate(0, 0, -3),
			EndAt:   testMonday.AddDate(0, 0, 2),
		},
	}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_SpecificStaffFilter(t *testing.T) {
	in := baseInput()
	in.Roster = roster(101, 102)
	in.Appointments = []domain.Appointment{
		appointmentAt(101, testMonday, 10*60, 11*60),
	}
	in.Staff = SpecificStaff(101)

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	assert.Nil(t, findSlot(t, slots, "10:15"), "для занятого мастера слот недоступен")
	free := findSlot(t, slots, "14:00")
	require.NotNil(t, free)
	assert.Equal(t, []int64{101}, free.StaffIDs)
}

func TestGenerateSlots_SpecificStaffNotInRoster(t *testing.T) {
	in := baseInput()
	in.Staff = SpecificStaff(999)

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_InactiveStaffExcluded(t *testing.T) {
	in := baseInput()
	in.Roster = []domain.StaffMember{
		{ID: 101, ShopID: 1, IsActive: false},
	}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_AppointmentOfAnotherStaffIgnored(t *testing.T) {
	in := baseInput()
	in.Roster = roster(101)
	in.Appointments = []domain.Appointment{
		appointmentAt(202, testMonday, 10*60, 11*60),
	}

	slots, err := GenerateSlots(in)

	require.NoError(t, err)
	assert.NotNil(t, findSlot(t, slots, "10:00"), "запись чужого мастера не влияет")
}

func TestGenerateSlots_MalformedShopRule(t *testing.T) {
	in := baseInput()
	in.ShopRules = []domain.WeeklyHoursRule{
		{
			OwnerType: domain.OwnerShop,
			OwnerID:   1,
			DayOfWeek: 1,
			OpenTime:  "9am",
			CloseTime: "17:00",
			IsEnabled: true,
		},
	}

	_, err := GenerateSlots(in)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRule, "битая конфигурация - громкая ошибка, а не пустой список")
}

func TestGenerateSlots_OpenNotBeforeClose(t *testing.T) {
	in := baseInput()
	in.ShopRules = []domain.WeeklyHoursRule{
		{
			OwnerType: domain.OwnerShop,
			OwnerID:   1,
			DayOfWeek: 1,
			OpenTime:  "17:00",
			CloseTime: "09:00",
			IsEnabled: true,
		},
	}

	_, err := GenerateSlots(in)

	assert.ErrorIs(t, err, ErrMalformedRule)
}

func TestGenerateSlots_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{"нулевой шаг слотов", func(in *Input) { in.Config.SlotIntervalMinutes = 0 }, ErrInvalidConfig},
		{"отрицательный буфер", func(in *Input) { in.Config.BufferMinutes = -5 }, ErrInvalidConfig},
		{"отрицательное окно записи", func(in *Input) { in.Config.BookingWindowDays = -1 }, ErrInvalidConfig},
		{"пустая таймзона", func(in *Input) { in.Config.Timezone = "" }, ErrInvalidConfig},
		{"неизвестная таймзона", func(in *Input) { in.Config.Timezone = "Mars/Olympus" }, ErrUnknownTimezone},
		{"нулевая длительность", func(in *Input) { in.DurationMinutes = 0 }, ErrMissingInput},
		{"нулевая дата", func(in *Input) { in.Date = time.Time{} }, ErrMissingInput},
		{"нулевое текущее время", func(in *Input) { in.Now = time.Time{} }, ErrMissingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)

			_, err := GenerateSlots(in)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateSlots_TimezoneRespected(t *testing.T) {
	// now = 12:00 UTC = 15:00 в Москве. При minAdvance=0 слоты до 15:00
	// по московскому времени должны быть отфильтрованы
	in := baseInput()
	in.Config.Timezone = "Europe/Moscow"
	in.Now = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "15:00", slots[0].StartTime.String())
}

// Сквозной сценарий из практики: Пн-Пт 09:00-17:00, буфер 10 минут, шаг 15,
// один мастер без кастомного расписания, запись 09:00-09:30, услуга 30 минут,
// запрос до открытия. Запись резервирует 08:50-09:40, первый слот сетки,
// не задевающий резерв - 09:45.
func TestGenerateSlots_EndToEndScenario(t *testing.T) {
	in := baseInput()
	in.Config.BufferMinutes = 10
	in.Now = testMonday.Add(8 * time.Hour)
	in.Appointments = []domain.Appointment{
		appointmentAt(101, testMonday, 9*60, 9*60+30),
	}

	slots, err := GenerateSlots(in)
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:45", slots[0].StartTime.String())
	assert.Equal(t, []int64{101}, slots[0].StaffIDs)
	// Последний кандидат с учетом буфера: 16:20 + 30 + 10 = 17:00, но сетка
	// с шагом 15 от 09:00 дает последний подходящий старт 16:15
	assert.Equal(t, "16:15", slots[len(slots)-1].StartTime.String())
}
