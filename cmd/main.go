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
	"github.com/shopspring/decimal"

	addClientAllergyHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/add_client_allergy"
	addServiceNoteHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/add_service_note"
	adjustLoyaltyPointsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/adjust_loyalty_points"
	cancelAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_appointment"
	checkInClientHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/check_in_client"
	confirmAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/confirm_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_appointment"
	createClientHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_client"
	getAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_appointment"
	getAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_appointments"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_slots"
	getCashCloseHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_cash_close"
	getClientHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client"
	getClientAlertsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client_alerts"
	getClientAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client_appointments"
	getClientHistoryHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client_history"
	getClientPaymentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client_payments"
	getClientsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_clients"
	getLoyaltyBenefitsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_loyalty_benefits"
	getLoyaltyRulesHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_loyalty_rules"
	getLoyaltyStatsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_loyalty_stats"
	getStaffCommissionsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_staff_commissions"
	getTenantPolicyHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_tenant_policy"
	listServicesHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/list_services"
	recordDepositHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/record_deposit"
	recordFullPaymentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/record_full_payment"
	refundDepositHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/refund_deposit"
	removeClientAllergyHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/remove_client_allergy"
	setBusinessHoursHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/set_business_hours"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_appointment_status"
	updateClientMedicalHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_client_medical"
	updateTenantPolicyHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_tenant_policy"
	upsertLoyaltyRuleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/upsert_loyalty_rule"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	policyCache "github.com/m04kA/SMC-SalonService/internal/infra/cache/policy"
	"github.com/m04kA/SMC-SalonService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	loyaltyRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/loyalty"
	paymentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/payment"
	policyRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/policy"
	serviceNoteRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/servicenote"
	appointmentsService "github.com/m04kA/SMC-SalonService/internal/service/appointments"
	clientsService "github.com/m04kA/SMC-SalonService/internal/service/clients"
	loyaltyService "github.com/m04kA/SMC-SalonService/internal/service/loyalty"
	paymentsService "github.com/m04kA/SMC-SalonService/internal/service/payments"
	policyService "github.com/m04kA/SMC-SalonService/internal/service/policy"
	createAppointmentUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonService/internal/usecase/validate_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// eventPublisher публикатор событий записи с освобождением ресурсов
type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	Close() error
}

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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Обёртка БД: с метриками запросов и пула или без них
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	loyaltyRepository := loyaltyRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	policyRepository := policyRepo.NewRepository(wrappedDB)
	serviceNoteRepository := serviceNoteRepo.NewRepository(wrappedDB)

	// Redis: кэш политик и ограничение запросов
	var (
		redisClient *redis.Client
		policies    policyService.PolicyRepository = policyRepository
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, policy cache will fall back to database: %v", cfg.Redis.Addr, err)
		}
		pingCancel()

		policies = policyCache.NewCache(
			policyRepository,
			redisClient,
			time.Duration(cfg.Redis.PolicyTTLSeconds)*time.Second,
			log,
		)
		log.Info("Policy cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.PolicyTTLSeconds)
	}

	// Публикация событий записи
	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = amqpPublisher
		log.Info("Appointment events are published to exchange %s", cfg.RabbitMQ.Exchange)
	}
	defer publisher.Close()

	// Инициализируем сервисы
	policySvc := policyService.NewService(
		policies,
		txMgr,
		defaultPolicy(cfg.Booking),
		log,
	)

	validator := validate_appointment.NewValidator(
		catalogRepository,
		appointmentRepository,
		log,
	)

	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		validator,
		policySvc,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	clientSvc := clientsService.NewService(
		clientRepository,
		appointmentRepository,
		serviceNoteRepository,
		catalogRepository,
		appointmentSvc,
		clientsService.UUIDTokenGenerator{},
		txMgr,
		cfg.Booking.DefaultPhoneRegion,
		log,
	)
	loyaltySvc := loyaltyService.NewService(
		clientRepository,
		loyaltyRepository,
		policySvc,
		txMgr,
		log,
	)
	paymentSvc := paymentsService.NewService(
		paymentRepository,
		appointmentRepository,
		catalogRepository,
		appointmentSvc,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		clientRepository,
		validator,
		policySvc,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		policySvc,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointments := getAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listServices := listServicesHandler.NewHandler(catalogRepository, log)

	recordDeposit := recordDepositHandler.NewHandler(paymentSvc, log)
	refundDeposit := refundDepositHandler.NewHandler(paymentSvc, log)
	recordFullPayment := recordFullPaymentHandler.NewHandler(paymentSvc, log)
	getClientPayments := getClientPaymentsHandler.NewHandler(paymentSvc, log)
	getCashClose := getCashCloseHandler.NewHandler(paymentSvc, log)
	getStaffCommissions := getStaffCommissionsHandler.NewHandler(paymentSvc, log)

	createClient := createClientHandler.NewHandler(clientSvc, log)
	getClients := getClientsHandler.NewHandler(clientSvc, log)
	getClient := getClientHandler.NewHandler(clientSvc, log)
	updateClientMedical := updateClientMedicalHandler.NewHandler(clientSvc, log)
	addClientAllergy := addClientAllergyHandler.NewHandler(clientSvc, log)
	removeClientAllergy := removeClientAllergyHandler.NewHandler(clientSvc, log)
	getClientAlerts := getClientAlertsHandler.NewHandler(clientSvc, log)
	checkInClient := checkInClientHandler.NewHandler(clientSvc, log)
	addServiceNote := addServiceNoteHandler.NewHandler(clientSvc, log)
	getClientHistory := getClientHistoryHandler.NewHandler(clientSvc, log)

	adjustLoyaltyPoints := adjustLoyaltyPointsHandler.NewHandler(loyaltySvc, log)
	getLoyaltyBenefits := getLoyaltyBenefitsHandler.NewHandler(loyaltySvc, log)
	getLoyaltyRules := getLoyaltyRulesHandler.NewHandler(loyaltySvc, log)
	upsertLoyaltyRule := upsertLoyaltyRuleHandler.NewHandler(loyaltySvc, log)
	getLoyaltyStats := getLoyaltyStatsHandler.NewHandler(loyaltySvc, log)

	getTenantPolicy := getTenantPolicyHandler.NewHandler(policySvc, log)
	updateTenantPolicy := updateTenantPolicyHandler.NewHandler(policySvc, log)
	setBusinessHours := setBusinessHoursHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log), middleware.AccessLog(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix: все маршруты требуют X-Tenant-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Tenant)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			cfg.RateLimit.FailOpen,
			log,
		)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %d requests per %ds per tenant", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
	}

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", getAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/deposit", recordDeposit.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/refund", refundDeposit.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/notes", addServiceNote.Handle).Methods(http.MethodPost)

	// --- Сотрудники и услуги ---
	api.HandleFunc("/staff/{staffId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/commissions", getStaffCommissions.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// --- Клиенты ---
	api.HandleFunc("/clients", createClient.Handle).Methods(http.MethodPost)
	api.HandleFunc("/clients", getClients.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/check-in", checkInClient.Handle).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientId}", getClient.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId}/medical", updateClientMedical.Handle).Methods(http.MethodPut)
	api.HandleFunc("/clients/{clientId}/allergies", addClientAllergy.Handle).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientId}/allergies/{allergy}", removeClientAllergy.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/clients/{clientId}/alerts", getClientAlerts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId}/history", getClientHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/clients/{clientId}/payments", getClientPayments.Handle).Methods(http.MethodGet)

	// --- Лояльность ---
	api.HandleFunc("/clients/{clientId}/loyalty", adjustLoyaltyPoints.Handle).Methods(http.MethodPost)
	api.HandleFunc("/clients/{clientId}/loyalty", getLoyaltyBenefits.Handle).Methods(http.MethodGet)
	api.HandleFunc("/loyalty/rules", getLoyaltyRules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/loyalty/rules/{tier}", upsertLoyaltyRule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/loyalty/stats", getLoyaltyStats.Handle).Methods(http.MethodGet)

	// --- Платежи ---
	api.HandleFunc("/payments", recordFullPayment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/cash-close", getCashClose.Handle).Methods(http.MethodGet)

	// --- Политика салона ---
	api.HandleFunc("/policy", getTenantPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/policy", updateTenantPolicy.Handle).Methods(http.MethodPut)
	api.HandleFunc("/policy/business-hours", setBusinessHours.Handle).Methods(http.MethodPut)

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

// defaultPolicy политика по умолчанию из секции [booking]
func defaultPolicy(c config.BookingConfig) domain.BookingPolicy {
	return domain.BookingPolicy{
		DepositPercentage: decimal.NewFromFloat(c.DepositPercentage),
		BufferTimeMinutes: c.BufferTimeMinutes,
		SlotStepMinutes:   c.SlotStepMinutes,
		LoyaltyThresholds: domain.LoyaltyThresholds{
			Bronze: c.BronzeThreshold,
			Silver: c.SilverThreshold,
			Gold:   c.GoldThreshold,
		},
	}
}
