package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	"github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/pkg/ptr"
)

// Понедельник 2 июня 2025
var testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) GetByShopWithFilter(_ context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if filter.StaffID != nil && a.StaffID != *filter.StaffID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type fakeScheduleRepo struct {
	shopRules  []domain.WeeklyHoursRule
	staffRules map[int64][]domain.WeeklyHoursRule
}

func (f *fakeScheduleRepo) GetShopRules(context.Context, int64) ([]domain.WeeklyHoursRule, error) {
	return f.shopRules, nil
}

func (f *fakeScheduleRepo) GetStaffRules(context.Context, int64) (map[int64][]domain.WeeklyHoursRule, error) {
	if f.staffRules == nil {
		return map[int64][]domain.WeeklyHoursRule{}, nil
	}
	return f.staffRules, nil
}

type fakeStaffRepo struct {
	roster []domain.StaffMember
}

func (f *fakeStaffRepo) GetActiveByShop(context.Context, int64) ([]domain.StaffMember, error) {
	return f.roster, nil
}

type fakeTimeBlockRepo struct {
	blocks []domain.TimeBlock
}

func (f *fakeTimeBlockRepo) GetOverlappingRange(context.Context, int64, time.Time, time.Time) ([]domain.TimeBlock, error) {
	return f.blocks, nil
}

type fakeConfigRepo struct {
	cfg *domain.ShopConfig
}

func (f *fakeConfigRepo) GetByShopID(context.Context, int64) (*domain.ShopConfig, error) {
	if f.cfg == nil {
		return nil, shopconfig.ErrConfigNotFound
	}
	return f.cfg, nil
}

type fakeCatalogClient struct {
	shopErr  error
	services []catalogservice.Service
}

func (f *fakeCatalogClient) GetShop(_ context.Context, shopID int64) (*catalogservice.Shop, error) {
	if f.shopErr != nil {
		return nil, f.shopErr
	}
	return &catalogservice.Shop{ID: shopID, Name: "Тестовый барбершоп", Timezone: "UTC", IsActive: true}, nil
}

func (f *fakeCatalogClient) GetServices(context.Context, int64, []int64) ([]catalogservice.Service, error) {
	return f.services, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func shopRulesMonFri() []domain.WeeklyHoursRule {
	rules := make([]domain.WeeklyHoursRule, 0, 5)
	for day := 1; day <= 5; day++ {
		rules = append(rules, domain.WeeklyHoursRule{
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

func newTestUseCase(
	apptRepo *fakeAppointmentRepo,
	schedRepo *fakeScheduleRepo,
	staffRepo *fakeStaffRepo,
	cfgRepo *fakeConfigRepo,
	catalog *fakeCatalogClient,
	now time.Time,
) *UseCase {
	uc := NewUseCase(
		apptRepo,
		schedRepo,
		staffRepo,
		&fakeTimeBlockRepo{},
		cfgRepo,
		catalog,
		nil, // без кеша
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func defaultRequest() *Request {
	return &Request{
		ShopID:     1,
		ServiceIDs: []int64{10},
		Date:       testMonday,
	}
}

func TestExecute_HappyPath(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{shopRules: shopRulesMonFri()},
		&fakeStaffRepo{roster: []domain.StaffMember{{ID: 101, IsActive: true}}},
		&fakeConfigRepo{cfg: &domain.ShopConfig{
			ShopID:              1,
			Timezone:            "UTC",
			SlotIntervalMinutes: 30,
			BookingWindowDays:   30,
		}},
		&fakeCatalogClient{services: []catalogservice.Service{
			{ID: 10, ShopID: 1, Name: "Стрижка", DurationMinutes: 30},
		}},
		testMonday.Add(-12*time.Hour),
	)

	resp, err := uc.Execute(context.Background(), defaultRequest())

	require.NoError(t, err)
	assert.Equal(t, 30, resp.DurationMinutes)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, []int64{101}, resp.Slots[0].StaffIDs)
}

func TestExecute_ServiceBundleDurationsSummed(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{shopRules: shopRulesMonFri()},
		&fakeStaffRepo{roster: []domain.StaffMember{{ID: 101, IsActive: true}}},
		&fakeConfigRepo{cfg: &domain.ShopConfig{
			ShopID:              1,
			Timezone:            "UTC",
			SlotIntervalMinutes: 30,
			BookingWindowDays:   30,
		}},
		&fakeCatalogClient{services: []catalogservice.Service{
			{ID: 10, ShopID: 1, Name: "Стрижка", DurationMinutes: 30},
			{ID: 11, ShopID: 1, Name: "Бритье", DurationMinutes: 45},
		}},
		testMonday.Add(-12*time.Hour),
	)

	req := defaultRequest()
	req.ServiceIDs = []int64{10, 11}

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 75, resp.DurationMinutes)
	// Последний слот должен оставлять место под все 75 минут: 15:30 + 75 = 16:45 < 17:00,
	// а 16:00 + 75 = 17:15 уже не помещается
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, "15:30", last.StartTime.String())
}

func TestExecute_BookingWindowExceededShortCircuits(t *testing.T) {
	// За горизонтом записи usecase обязан вернуть пустой ответ,
	// не обращаясь к расписаниям и записям
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{shopRules: shopRulesMonFri()},
		&fakeStaffRepo{roster: []domain.StaffMember{{ID: 101, IsActive: true}}},
		&fakeConfigRepo{cfg: &domain.ShopConfig{
			ShopID:              1,
			Timezone:            "UTC",
			SlotIntervalMinutes: 30,
			BookingWindowDays:   30,
		}},
		&fakeCatalogClient{services: []catalogservice.Service{
			{ID: 10, ShopID: 1, DurationMinutes: 30},
		}},
		testMonday,
	)

	req := defaultRequest()
	req.Date = testMonday.AddDate(0, 0, 31)

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DefaultConfigWhenMissing(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{shopRules: shopRulesMonFri()},
		&fakeStaffRepo{roster: []domain.StaffMember{{ID: 101, IsActive: true}}},
		&fakeConfigRepo{cfg: nil}, // конфигурация не настроена
		&fakeCatalogClient{services: []catalogservice.Service{
			{ID: 10, ShopID: 1, DurationMinutes: 30},
		}},
		testMonday.Add(-12*time.Hour),
	)

	resp, err := uc.Execute(context.Background(), defaultRequest())

	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	// Дефолтный шаг 15 минут
	assert.Equal(t, "09:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "09:15", resp.Slots[1].StartTime.String())
}

func TestExecute_ShopNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{},
		&fakeStaffRepo{},
		&fakeConfigRepo{},
		&fakeCatalogClient{shopErr: catalogservice.ErrShopNotFound},
		testMonday,
	)

	_, err := uc.Execute(context.Background(), defaultRequest())

	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestExecute_MisconfiguredShopFailsLoudly(t *testing.T) {
	// Битое расписание - это ошибка, а не "нет свободных слотов"
	broken := []domain.WeeklyHoursRule{{
		OwnerType: domain.OwnerShop,
		OwnerID:   1,
		DayOfWeek: 1,
		OpenTime:  "xx:yy",
		CloseTime: "17:00",
		IsEnabled: true,
	}}

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeScheduleRepo{shopRules: broken},
		&fakeStaffRepo{roster: []domain.StaffMember{{ID: 101, IsActive: true}}},
		&fakeConfigRepo{cfg: &domain.ShopConfig{
			ShopID:              1,
			Timezone:            "UTC",
			SlotIntervalMinutes: 30,
			BookingWindowDays:   30,
		}},
		&fakeCatalogClient{services: []catalogservice.Service{
			{ID: 10, ShopID: 1, DurationMinutes: 30},
		}},
		testMonday.Add(-12*time.Hour),
	)

	_, err := uc.Execute(context.Background(), defaultRequest())

	assert.ErrorIs(t, err, ErrMisconfiguredShop)
}

func TestExecute_StaffFilterPassedToEngine(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{{
			ShopID:  1,
			StaffID: 101,
			StartAt: testMonday.Add(10 * time.Hour),
			EndAt:   testMonday.Add(11 * time.Hour),
			Status:  domain.StatusConfirmed,
		}}},
		&fakeScheduleRepo{shopRules: shopRulesMonFri()},
		&fakeStaffRepo{roster: []domain.StaffMember{
			{ID: 101, IsActive: true},
			{ID: 102, IsActive: true},
		}},
		&fakeConfigRepo{cfg: &domain.ShopConfig{
			ShopID:              1,
			Timezone:            "UTC",
			SlotIntervalMinutes: 30,
			BookingWindowDays:   30,
		}},
		&fakeCatalogClient{services: []catalogservice.Service{
			{ID: 10, ShopID: 1, DurationMinutes: 30},
		}},
		testMonday.Add(-12*time.Hour),
	)

	req := defaultRequest()
	req.StaffID = ptr.Ptr(int64(101))

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	for _, slot := range resp.Slots {
		assert.Equal(t, []int64{101}, slot.StaffIDs)
		// Во время записи мастера слотов быть не должно
		assert.NotEqual(t, "10:00", slot.StartTime.String())
		assert.NotEqual(t, "10:30", slot.StartTime.String())
	}
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{}, &fakeScheduleRepo{}, &fakeStaffRepo{},
		&fakeConfigRepo{}, &fakeCatalogClient{}, testMonday,
	)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"нулевой shopID", func(r *Request) { r.ShopID = 0 }},
		{"пустой пакет услуг", func(r *Request) { r.ServiceIDs = nil }},
		{"отрицательный serviceID", func(r *Request) { r.ServiceIDs = []int64{-1} }},
		{"нулевая дата", func(r *Request) { r.Date = time.Time{} }},
		{"нулевой staffID", func(r *Request) { r.StaffID = ptr.Ptr(int64(0)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := defaultRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
