package main

import (
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	handoverapp "github.com/rentkaro/rentcore/application/handover"
	invoiceapp "github.com/rentkaro/rentcore/application/invoice"
	notificationapp "github.com/rentkaro/rentcore/application/notification"
	orderapp "github.com/rentkaro/rentcore/application/order"
	pricingapp "github.com/rentkaro/rentcore/application/pricing"
	reservationapp "github.com/rentkaro/rentcore/application/reservation"
	"github.com/rentkaro/rentcore/cmd/config"
	redisclient "github.com/rentkaro/rentcore/cmd/redis"
	_ "github.com/rentkaro/rentcore/docs"
	handoverRepo "github.com/rentkaro/rentcore/repository/handover"
	invoiceRepo "github.com/rentkaro/rentcore/repository/invoice"
	orderRepo "github.com/rentkaro/rentcore/repository/order"
	redisRepo "github.com/rentkaro/rentcore/repository/redis"
	reservationRepo "github.com/rentkaro/rentcore/repository/reservation"
	txRepo "github.com/rentkaro/rentcore/repository/tx"
	variantRepo "github.com/rentkaro/rentcore/repository/variant"
	"github.com/rentkaro/rentcore/thirdparty/rabbitmq"
	"github.com/rentkaro/rentcore/transport"
	"github.com/rentkaro/rentcore/utils/logger"
	"go.uber.org/zap"
)

// @title RENTCORE API
// @version 1.0
// @description Rental marketplace core API Documentation
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		// fallback to standard log if zap init fails
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Initialize Redis client
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Notification publisher; the core degrades to logged-only
	// notifications when the broker is unreachable
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Error("err connect rabbitmq, notifications disabled", zap.Error(err))
	} else {
		defer publisher.Close()
	}

	// Initialize repositories
	TxRepo := txRepo.NewTxRepository(db)
	VariantRepo := variantRepo.NewVariantRepository(db)
	ReservationRepo := reservationRepo.NewReservationRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	HandoverRepo := handoverRepo.NewHandoverRepository(db)
	InvoiceRepo := invoiceRepo.NewInvoiceRepository(db)
	RedisRepo := redisRepo.NewRepository()

	// Initialize application layers
	PricingEngine := pricingapp.NewEngine(cfg)
	ReservationApp := reservationapp.NewReservationApp(TxRepo, VariantRepo, ReservationRepo)
	InvoiceApp := invoiceapp.NewInvoiceApp(TxRepo, InvoiceRepo)
	NotificationApp := notificationapp.NewNotificationApp(cfg, publisher, ReservationRepo, OrderRepo)
	OrderApp := orderapp.NewOrderApp(cfg, TxRepo, OrderRepo, VariantRepo, ReservationApp, PricingEngine, InvoiceApp, NotificationApp)
	HandoverApp := handoverapp.NewHandoverApp(TxRepo, OrderRepo, ReservationRepo, HandoverRepo, PricingEngine, InvoiceApp, NotificationApp)

	httpTransport := transport.NewTransport(cfg, RedisRepo, &transport.RestHandler{
		OrderApp:        OrderApp,
		HandoverApp:     HandoverApp,
		ReservationApp:  ReservationApp,
		InvoiceApp:      InvoiceApp,
		NotificationApp: NotificationApp,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
