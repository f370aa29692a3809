package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"marketplace/internal/config"
	controller "marketplace/internal/controllers/http"
	"marketplace/internal/infra/mysql"
	"marketplace/internal/infra/payment"
	"marketplace/internal/infra/rabbitmq"
	mysqlrepo "marketplace/internal/repository/mysql"
	"marketplace/internal/services"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "marketplace").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config: load")
	}

	db, err := mysql.New(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("db: connect")
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewStore(db)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq: init publisher")
	}
	defer publisher.Close()

	paymentClient := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey, 5*time.Second)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	orderService := services.NewOrderService(store, publisher, logger)
	paymentService := services.NewPaymentService(store, paymentClient, publisher, cfg.PaymentWebhookSecret, cfg.PaymentCurrency, logger)
	fulfillmentService := services.NewFulfillmentService(store, logger)

	handler := controller.NewHandler(orderService, paymentService, fulfillmentService, redisClient, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	logger.Info().Str("port", cfg.ServerPort).Msg("starting marketplace service")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server run")
	}
}
