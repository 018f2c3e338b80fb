package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/create_appointment"
	createTimeBlockHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/create_time_block"
	deleteTimeBlockHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/delete_time_block"
	getAppointmentHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/get_client_appointments"
	getShopAppointmentsHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/get_shop_appointments"
	getShopConfigHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/get_shop_config"
	getShopScheduleHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/get_shop_schedule"
	listTimeBlocksHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/list_time_blocks"
	rescheduleAppointmentHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/update_appointment_status"
	updateShopConfigHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/update_shop_config"
	updateShopScheduleHandler "github.com/barberhub/BH-BookingService/internal/api/handlers/update_shop_schedule"
	"github.com/barberhub/BH-BookingService/internal/api/middleware"
	"github.com/barberhub/BH-BookingService/internal/config"
	"github.com/barberhub/BH-BookingService/internal/domain"
	availabilityCache "github.com/barberhub/BH-BookingService/internal/infra/cache/availability"
	"github.com/barberhub/BH-BookingService/internal/infra/events"
	appointmentRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/schedule"
	shopConfigRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/shopconfig"
	staffRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/staff"
	timeBlockRepo "github.com/barberhub/BH-BookingService/internal/infra/storage/timeblock"
	catalogServiceClient "github.com/barberhub/BH-BookingService/internal/integrations/catalogservice"
	clientServiceClient "github.com/barberhub/BH-BookingService/internal/integrations/clientservice"
	appointmentsService "github.com/barberhub/BH-BookingService/internal/service/appointments"
	scheduleService "github.com/barberhub/BH-BookingService/internal/service/schedule"
	createAppointmentUC "github.com/barberhub/BH-BookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/barberhub/BH-BookingService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/barberhub/BH-BookingService/internal/usecase/reschedule_appointment"
	"github.com/barberhub/BH-BookingService/pkg/dbmetrics"
	"github.com/barberhub/BH-BookingService/pkg/logger"
	"github.com/barberhub/BH-BookingService/pkg/metrics"
	"github.com/barberhub/BH-BookingService/pkg/simpletxmanager"
	"github.com/barberhub/BH-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting BH-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, ClientService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Кеш слотов (если включен)
	// Локальный интерфейс объединяет чтение и инвалидацию: нулевое значение
	// остается настоящим nil и корректно проходит проверки cache != nil
	var slotsCache interface {
		Get(ctx context.Context, key string) ([]domain.AvailableSlot, error)
		Set(ctx context.Context, key string, slots []domain.AvailableSlot) error
		InvalidateDay(ctx context.Context, shopID int64, date time.Time)
		InvalidateShop(ctx context.Context, shopID int64)
	}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer rdb.Close()
		slotsCache = availabilityCache.New(rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		log.Info("Slots cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Публикация событий жизненного цикла записей (если включена)
	var eventPublisher interface {
		Publish(ctx context.Context, event events.AppointmentEvent) error
	}
	var kafkaPublisher *events.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		eventPublisher = kafkaPublisher
		log.Info("Event publishing enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		staffRepository       *staffRepo.Repository
		timeBlockRepository   *timeBlockRepo.Repository
		configRepository      *shopConfigRepo.Repository
	)

	// Транзакционный менеджер для use cases и сервисов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		staffRepository = staffRepo.NewRepository(wrappedDB)
		timeBlockRepository = timeBlockRepo.NewRepository(wrappedDB)
		configRepository = shopConfigRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		staffRepository = staffRepo.NewRepository(db)
		timeBlockRepository = timeBlockRepo.NewRepository(db)
		configRepository = shopConfigRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogClient,
		eventPublisher,
		slotsCache,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		configRepository,
		timeBlockRepository,
		staffRepository,
		catalogClient,
		txMgr,
		slotsCache,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		staffRepository,
		timeBlockRepository,
		configRepository,
		catalogClient,
		slotsCache,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		staffRepository,
		timeBlockRepository,
		configRepository,
		catalogClient,
		clientClient,
		txMgr,
		eventPublisher,
		slotsCache,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		staffRepository,
		timeBlockRepository,
		configRepository,
		catalogClient,
		txMgr,
		eventPublisher,
		slotsCache,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getShopAppointments := getShopAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getShopSchedule := getShopScheduleHandler.NewHandler(scheduleSvc, log)
	updateShopSchedule := updateShopScheduleHandler.NewHandler(scheduleSvc, log)
	getShopConfig := getShopConfigHandler.NewHandler(scheduleSvc, log)
	updateShopConfig := updateShopConfigHandler.NewHandler(scheduleSvc, log)
	createTimeBlock := createTimeBlockHandler.NewHandler(scheduleSvc, log)
	listTimeBlocks := listTimeBlocksHandler.NewHandler(scheduleSvc, log)
	deleteTimeBlock := deleteTimeBlockHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты для записи
	api.HandleFunc("/shops/{shopId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание барбершопа
	api.HandleFunc("/shops/{shopId}/schedule", getShopSchedule.Handle).Methods(http.MethodGet)

	// Конфигурация бронирования барбершопа
	api.HandleFunc("/shops/{shopId}/config", getShopConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Перенос записи на другой слот
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Обновление статуса записи (для менеджеров)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление барбершопом (для менеджеров) ---
	// Список записей барбершопа
	protected.HandleFunc("/shops/{shopId}/appointments", getShopAppointments.Handle).Methods(http.MethodGet)

	// Замена расписания барбершопа или мастера
	protected.HandleFunc("/shops/{shopId}/schedule", updateShopSchedule.Handle).Methods(http.MethodPut)

	// Обновление конфигурации бронирования
	protected.HandleFunc("/shops/{shopId}/config", updateShopConfig.Handle).Methods(http.MethodPut)

	// Блокировки времени
	protected.HandleFunc("/shops/{shopId}/time-blocks", createTimeBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shops/{shopId}/time-blocks", listTimeBlocks.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/shops/{shopId}/time-blocks/{blockId}", deleteTimeBlock.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	// Закрываем kafka writer: несброшенные события должны уйти до остановки
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
