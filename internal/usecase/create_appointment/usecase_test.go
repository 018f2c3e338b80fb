package create_appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	"github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/internal/integrations/clientservice"
	"github.com/barberhub/BH-BookingService/pkg/ptr"
)

// Понедельник 2 июня 2025
var testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	created      *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	created := *appt
	created.ID = 555
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
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
	shopRules []domain.WeeklyHoursRule
}

func (f *fakeScheduleRepo) GetShopRules(context.Context, int64) ([]domain.WeeklyHoursRule, error) {
	return f.shopRules, nil
}

func (f *fakeScheduleRepo) GetStaffRules(context.Context, int64) (map[int64][]domain.WeeklyHoursRule, error) {
	return map[int64][]domain.WeeklyHoursRule{}, nil
}

type fakeStaffRepo struct {
	roster []domain.StaffMember
}

func (f *fakeStaffRepo) GetActiveByShop(context.Context, int64) ([]domain.StaffMember, error) {
	return f.roster, nil
}

type fakeTimeBlockRepo struct{}

func (f *fakeTimeBlockRepo) GetOverlappingRange(context.Context, int64, time.Time, time.Time) ([]domain.TimeBlock, error) {
	return nil, nil
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

type fakeCatalogClient struct{}

func (f *fakeCatalogClient) GetShop(_ context.Context, shopID int64) (*catalogservice.Shop, error) {
	return &catalogservice.Shop{ID: shopID, Name: "Тестовый барбершоп", Timezone: "UTC", IsActive: true}, nil
}

func (f *fakeCatalogClient) GetServices(context.Context, int64, []int64) ([]catalogservice.Service, error) {
	return []catalogservice.Service{
		{ID: 10, ShopID: 1, Name: "Стрижка", DurationMinutes: 30, Price: ptr.Ptr(1500.0)},
	}, nil
}

type fakeClientClient struct {
	degraded bool
}

func (f *fakeClientClient) GetClientWithGracefulDegradation(context.Context, int64) (*clientservice.ClientProfile, error) {
	if f.degraded {
		return nil, clientservice.ErrServiceDegraded
	}
	return &clientservice.ClientProfile{ID: 200, Name: "Иван", Phone: "+79990001122"}, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	published []events.AppointmentEvent
}

func (f *fakePublisher) Publish(_ context.Context, event events.AppointmentEvent) error {
	f.published = append(f.published, event)
	return nil
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

type testEnv struct {
	uc        *UseCase
	apptRepo  *fakeAppointmentRepo
	publisher *fakePublisher
}

func newTestEnv(apptRepo *fakeAppointmentRepo, roster []domain.StaffMember, now time.Time) *testEnv {
	publisher := &fakePublisher{}
	uc := NewUseCase(
		apptRepo,
		&fakeScheduleRepo{shopRules: shopRulesMonFri()},
		&fakeStaffRepo{roster: roster},
		&fakeTimeBlockRepo{},
		&fakeConfigRepo{cfg: &domain.ShopConfig{
			ShopID:              1,
			Timezone:            "UTC",
			SlotIntervalMinutes: 30,
			BookingWindowDays:   30,
		}},
		&fakeCatalogClient{},
		&fakeClientClient{},
		&fakeTxManager{},
		publisher,
		nil, // без кеша
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return &testEnv{uc: uc, apptRepo: apptRepo, publisher: publisher}
}

func defaultRequest() *Request {
	return &Request{
		ClientID:   200,
		ShopID:     1,
		ServiceIDs: []int64{10},
		Date:       testMonday,
		StartTime:  "10:00",
	}
}

func TestExecute_CreatesAppointment(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday.Add(-12*time.Hour),
	)

	resp, err := env.uc.Execute(context.Background(), defaultRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(555), resp.ID)
	assert.Equal(t, int64(101), resp.StaffID)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 1500.0, resp.TotalPrice)
	assert.Equal(t, []string{"Стрижка"}, resp.ServiceNames)
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Иван", *resp.ClientName)

	// Абсолютные границы записи в таймзоне барбершопа
	require.NotNil(t, env.apptRepo.created)
	assert.Equal(t, testMonday.Add(10*time.Hour), env.apptRepo.created.StartAt)
	assert.Equal(t, testMonday.Add(10*time.Hour+30*time.Minute), env.apptRepo.created.EndAt)

	// Событие публикуется после коммита
	require.Len(t, env.publisher.published, 1)
	assert.Equal(t, events.TypeAppointmentCreated, env.publisher.published[0].Type)
	assert.Equal(t, int64(555), env.publisher.published[0].AppointmentID)
}

func TestExecute_SlotTaken(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{{
			ShopID:  1,
			StaffID: 101,
			StartAt: testMonday.Add(10 * time.Hour),
			EndAt:   testMonday.Add(10*time.Hour + 30*time.Minute),
			Status:  domain.StatusConfirmed,
		}}},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday.Add(-12*time.Hour),
	)

	_, err := env.uc.Execute(context.Background(), defaultRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SlotTakenForOneStaffFallsToAnother(t *testing.T) {
	// Слот занят у мастера 101, при выборе "любой мастер" назначается 102
	env := newTestEnv(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{{
			ShopID:  1,
			StaffID: 101,
			StartAt: testMonday.Add(10 * time.Hour),
			EndAt:   testMonday.Add(10*time.Hour + 30*time.Minute),
			Status:  domain.StatusConfirmed,
		}}},
		[]domain.StaffMember{
			{ID: 101, IsActive: true},
			{ID: 102, IsActive: true},
		},
		testMonday.Add(-12*time.Hour),
	)

	resp, err := env.uc.Execute(context.Background(), defaultRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(102), resp.StaffID)
}

func TestExecute_RequestedStaffBusy(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{{
			ShopID:  1,
			StaffID: 101,
			StartAt: testMonday.Add(10 * time.Hour),
			EndAt:   testMonday.Add(10*time.Hour + 30*time.Minute),
			Status:  domain.StatusConfirmed,
		}}},
		[]domain.StaffMember{
			{ID: 101, IsActive: true},
			{ID: 102, IsActive: true},
		},
		testMonday.Add(-12*time.Hour),
	)

	req := defaultRequest()
	req.StaffID = ptr.Ptr(int64(101))

	_, err := env.uc.Execute(context.Background(), req)

	// При запросе конкретного занятого мастера движок фильтрует по нему,
	// слота 10:00 в выдаче нет
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_OffGridTimeRejected(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday.Add(-12*time.Hour),
	)

	req := defaultRequest()
	req.StartTime = "10:10" // Не кратно шагу сетки 30 минут

	_, err := env.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_DateInPast(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday.AddDate(0, 0, 3),
	)

	_, err := env.uc.Execute(context.Background(), defaultRequest())

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateBeyondBookingWindow(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday,
	)

	req := defaultRequest()
	req.Date = testMonday.AddDate(0, 0, 31)

	_, err := env.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_ShopClosedOnDate(t *testing.T) {
	env := newTestEnv(
		&fakeAppointmentRepo{},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday.Add(-12*time.Hour),
	)

	req := defaultRequest()
	req.Date = testMonday.AddDate(0, 0, 5) // Суббота, правил на нее нет

	_, err := env.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrShopClosed)
}

// racingTxManager имитирует проигрыш гонки сериализуемых транзакций:
// функция отрабатывает, но коммит отклоняется PostgreSQL с кодом 40001
type racingTxManager struct{}

func (racingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return fmt.Errorf("txmanager: failed to commit transaction: %w", &pq.Error{Code: "40001"})
}

func TestExecute_LostSerializableRace(t *testing.T) {
	// Проигравший параллельную запись клиент получает "слот занят", а не 500
	env := newTestEnv(
		&fakeAppointmentRepo{},
		[]domain.StaffMember{{ID: 101, IsActive: true}},
		testMonday.Add(-12*time.Hour),
	)
	env.uc.txManager = racingTxManager{}

	_, err := env.uc.Execute(context.Background(), defaultRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestExecute_ClientServiceDegradedStillBooks(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{}
	env := newTestEnv(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, testMonday.Add(-12*time.Hour))
	env.uc.clientClient = &fakeClientClient{degraded: true}

	resp, err := env.uc.Execute(context.Background(), defaultRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.ClientName)
	assert.Nil(t, resp.ClientPhone)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"нулевой clientID", func(r *Request) { r.ClientID = 0 }},
		{"нулевой shopID", func(r *Request) { r.ShopID = 0 }},
		{"пустой пакет услуг", func(r *Request) { r.ServiceIDs = nil }},
		{"нулевая дата", func(r *Request) { r.Date = time.Time{} }},
		{"пустое время начала", func(r *Request) { r.StartTime = "" }},
		{"кривой формат времени", func(r *Request) { r.StartTime = "25:99" }},
		{"отрицательный staffID", func(r *Request) { r.StaffID = ptr.Ptr(int64(-1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := defaultRequest()
			tt.mutate(req)

			err := validateRequest(req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
