package reschedule_appointment

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/BH-BookingService/internal/domain"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	apptstorage "github.com/barberhub/BH-BookingService/internal/infra/storage/appointment"
	"github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	"github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	"github.com/barberhub/BH-BookingService/pkg/ptr"
)

// Понедельник 2 июня 2025
var testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type rescheduleCall struct {
	id      int64
	staffID int64
	startAt sql.NullTime
	endAt   sql.NullTime
}

type fakeAppointmentRepo struct {
	byID         map[int64]*domain.Appointment
	appointments []*domain.Appointment
	rescheduled  *rescheduleCall
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, apptstorage.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) GetByShopWithFilter(_ context.Context, filter domain.ShopAppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if filter.ExcludeID != nil && a.ID == *filter.ExcludeID {
			continue
		}
		if filter.StaffID != nil && a.StaffID != *filter.StaffID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) Reschedule(_ context.Context, id int64, staffID int64, startAt, endAt sql.NullTime) error {
	f.rescheduled = &rescheduleCall{id: id, staffID: staffID, startAt: startAt, endAt: endAt}
	return nil
}

type fakeScheduleRepo struct{}

func (f *fakeScheduleRepo) GetShopRules(context.Context, int64) ([]domain.WeeklyHoursRule, error) {
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
	return rules, nil
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

type fakeConfigRepo struct{}

func (f *fakeConfigRepo) GetByShopID(context.Context, int64) (*domain.ShopConfig, error) {
	return nil, shopconfig.ErrConfigNotFound
}

type fakeCatalogClient struct{}

func (f *fakeCatalogClient) GetShop(_ context.Context, shopID int64) (*catalogservice.Shop, error) {
	return &catalogservice.Shop{ID: shopID, Name: "Тестовый барбершоп", Timezone: "UTC", IsActive: true}, nil
}

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

func existingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		ShopID:          1,
		ClientID:        200,
		StaffID:         101,
		ServiceIDs:      []int64{10},
		StartAt:         testMonday.Add(10 * time.Hour),
		EndAt:           testMonday.Add(10*time.Hour + 30*time.Minute),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	}
}

func newTestUseCase(apptRepo *fakeAppointmentRepo, roster []domain.StaffMember, publisher *fakePublisher) *UseCase {
	uc := NewUseCase(
		apptRepo,
		&fakeScheduleRepo{},
		&fakeStaffRepo{roster: roster},
		&fakeTimeBlockRepo{},
		&fakeConfigRepo{},
		&fakeCatalogClient{},
		&fakeTxManager{},
		publisher,
		nil, // без кеша
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testMonday.Add(-12 * time.Hour)}
	return uc
}

func TestExecute_MovesAppointment(t *testing.T) {
	appt := existingAppointment()
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	publisher := &fakePublisher{}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, publisher)

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.StaffID)
	assert.Equal(t, appt.StartAt, resp.PrevStartAt)

	require.NotNil(t, apptRepo.rescheduled)
	assert.Equal(t, testMonday.Add(14*time.Hour), apptRepo.rescheduled.startAt.Time)
	assert.Equal(t, testMonday.Add(14*time.Hour+30*time.Minute), apptRepo.rescheduled.endAt.Time)

	require.Len(t, publisher.published, 1)
	event := publisher.published[0]
	assert.Equal(t, events.TypeAppointmentRescheduled, event.Type)
	require.NotNil(t, event.PrevStartAt)
	assert.Equal(t, appt.StartAt, *event.PrevStartAt)
}

func TestExecute_OwnSlotDoesNotBlockMove(t *testing.T) {
	// Перенос на слот, пересекающийся с прежним временем самой записи:
	// запись не должна конфликтовать сама с собой
	appt := existingAppointment()
	apptRepo := &fakeAppointmentRepo{
		byID:         map[int64]*domain.Appointment{42: appt},
		appointments: []*domain.Appointment{appt},
	}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "10:15",
	})

	require.NoError(t, err)
}

func TestExecute_KeepsCurrentStaffWhenFree(t *testing.T) {
	appt := existingAppointment()
	appt.StaffID = 102
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{
		{ID: 101, IsActive: true},
		{ID: 102, IsActive: true},
	}, &fakePublisher{})

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(102), resp.StaffID)
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
	// Проигравший параллельный перенос получает "слот занят", а не 500
	appt := existingAppointment()
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, &fakePublisher{})
	uc.txManager = racingTxManager{}

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestExecute_TargetSlotTaken(t *testing.T) {
	appt := existingAppointment()
	other := &domain.Appointment{
		ID:      77,
		ShopID:  1,
		StaffID: 101,
		StartAt: testMonday.Add(14 * time.Hour),
		EndAt:   testMonday.Add(14*time.Hour + 30*time.Minute),
		Status:  domain.StatusConfirmed,
	}
	apptRepo := &fakeAppointmentRepo{
		byID:         map[int64]*domain.Appointment{42: appt},
		appointments: []*domain.Appointment{other},
	}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_NotOwner(t *testing.T) {
	appt := existingAppointment()
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      999,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_CompletedCannotBeRescheduled(t *testing.T) {
	appt := existingAppointment()
	appt.Status = domain.StatusCompleted
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	assert.ErrorIs(t, err, ErrCannotBeRescheduled)
}

func TestExecute_NotFound(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{}}
	uc := newTestUseCase(apptRepo, nil, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

type missingShopCatalogClient struct{}

func (missingShopCatalogClient) GetShop(context.Context, int64) (*catalogservice.Shop, error) {
	return nil, catalogservice.ErrShopNotFound
}

func TestExecute_ShopGoneFromCatalog(t *testing.T) {
	// Запись есть, но барбершоп уже удален из каталога:
	// клиент должен получить "не найдено", а не внутреннюю ошибку
	appt := existingAppointment()
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	uc := NewUseCase(
		apptRepo,
		&fakeScheduleRepo{},
		&fakeStaffRepo{roster: []domain.StaffMember{{ID: 101, IsActive: true}}},
		&fakeTimeBlockRepo{},
		&fakeConfigRepo{},
		missingShopCatalogClient{},
		&fakeTxManager{},
		&fakePublisher{},
		nil,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testMonday.Add(-12 * time.Hour)}

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
	})

	assert.ErrorIs(t, err, ErrShopNotFound)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestExecute_RequestedStaffNotEligible(t *testing.T) {
	appt := existingAppointment()
	apptRepo := &fakeAppointmentRepo{byID: map[int64]*domain.Appointment{42: appt}}
	uc := newTestUseCase(apptRepo, []domain.StaffMember{{ID: 101, IsActive: true}}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		ClientID:      200,
		Date:          testMonday,
		StartTime:     "14:00",
		StaffID:       ptr.Ptr(int64(999)),
	})

	// Мастер 999 не в ростере: движок с фильтром по нему не выдаст слотов
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}
