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

	cancelBookingHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/cancel_booking"
	checkStaffAvailabilityHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/check_staff_availability"
	createBookingHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/get_customer_bookings"
	getLocationBookingsHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/get_location_bookings"
	getMerchantPolicyHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/get_merchant_policy"
	updateBookingStatusHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/update_booking_status"
	updateMerchantPolicyHandler "github.com/heya-pos/HEYA-BookingService/internal/api/handlers/update_merchant_policy"
	"github.com/heya-pos/HEYA-BookingService/internal/api/middleware"
	"github.com/heya-pos/HEYA-BookingService/internal/config"
	bookingRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/booking"
	policyRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/policy"
	rosterRepo "github.com/heya-pos/HEYA-BookingService/internal/infra/storage/roster"
	catalogServiceClient "github.com/heya-pos/HEYA-BookingService/internal/integrations/catalogservice"
	bookingsService "github.com/heya-pos/HEYA-BookingService/internal/service/bookings"
	policyService "github.com/heya-pos/HEYA-BookingService/internal/service/policy"
	cancelBookingUC "github.com/heya-pos/HEYA-BookingService/internal/usecase/cancel_booking"
	getAvailableSlotsUC "github.com/heya-pos/HEYA-BookingService/internal/usecase/get_available_slots"
	requestBookingUC "github.com/heya-pos/HEYA-BookingService/internal/usecase/request_booking"
	resolveAvailabilityUC "github.com/heya-pos/HEYA-BookingService/internal/usecase/resolve_availability"
	"github.com/heya-pos/HEYA-BookingService/pkg/dbmetrics"
	"github.com/heya-pos/HEYA-BookingService/pkg/logger"
	"github.com/heya-pos/HEYA-BookingService/pkg/metrics"
	"github.com/heya-pos/HEYA-BookingService/pkg/simpletxmanager"
	"github.com/heya-pos/HEYA-BookingService/pkg/txmanager"
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

	log.Info("Starting HEYA-BookingService...")
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

	// Инициализируем клиента каталога услуг
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog service client initialized (url=%s, timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		rosterRepository  *rosterRepo.Repository
		policyRepository  *policyRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		rosterRepository = rosterRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		rosterRepository = rosterRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	policySvc := policyService.NewService(policyRepository, log)

	// Инициализируем use cases
	resolveAvailabilityUseCase := resolveAvailabilityUC.NewUseCase(
		bookingRepository,
		rosterRepository,
		policyRepository,
		catalogClient,
		log,
	)

	requestBookingUseCase := requestBookingUC.NewUseCase(
		bookingRepository,
		policyRepository,
		resolveAvailabilityUseCase,
		catalogClient,
		txMgr,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		policyRepository,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		rosterRepository,
		policyRepository,
		catalogClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(requestBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkStaffAvailability := checkStaffAvailabilityHandler.NewHandler(resolveAvailabilityUseCase, log)
	getMerchantPolicy := getMerchantPolicyHandler.NewHandler(policySvc, log)
	updateMerchantPolicy := updateMerchantPolicyHandler.NewHandler(policySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Все маршруты мерчант-скоупные: идентичность приходит от gateway
	// в X-Merchant-ID
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Календарь локации ---
	protected.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/availability/check", checkStaffAvailability.Handle).Methods(http.MethodPost)

	// --- Политика бронирования мерчанта ---
	protected.HandleFunc("/policy", getMerchantPolicy.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/policy", updateMerchantPolicy.Handle).Methods(http.MethodPut)

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
