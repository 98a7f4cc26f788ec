package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lishe/internal/config"
	"lishe/internal/db"
	"lishe/internal/events"
	apihttp "lishe/internal/http"
	"lishe/internal/repository"
	"lishe/internal/service"
	"lishe/internal/sms"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	otpRepo := repository.NewPgOTPRepository(pool)
	transactor := repository.NewPgTransactor(pool)

	healthChecks := map[string]apihttp.HealthCheck{
		"postgres": func(ctx context.Context) error { return db.Ping(ctx, pool) },
	}

	var (
		otpLimiter  = service.NewOTPRateLimiter(cfg.OTPRateWindow(), cfg.OTPRateMax)
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }

		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiter", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, cfg.OTPRateWindow(), cfg.OTPRateMax, logger)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	var publisher events.Publisher = events.NewNopPublisher()
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn("amqp publisher init failed, events disabled", zap.Error(err))
		} else {
			defer amqpPub.Close()
			publisher = amqpPub
		}
	}

	jwtSvc := service.NewJWTServiceWithStore(cfg.JWTSecret, cfg.JWTAccessTTL(), cfg.JWTRefreshTTL(), tokenStore)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	registrationSvc := service.NewRegistrationService(
		logger,
		userRepo,
		otpRepo,
		transactor,
		newSMSSender(cfg, logger),
		service.NewBcryptHasher(0),
		otpLimiter,
		publisher,
	)

	authHandler := apihttp.NewAuthHandler(logger, registrationSvc, jwtSvc)
	healthHandler := apihttp.NewHealthHandler(logger, healthChecks)
	router := apihttp.NewRouter(logger, authHandler, healthHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("sms_provider", cfg.SMSProvider))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newSMSSender elige el proveedor de SMS; si la configuracion es invalida
// el registro responde delivery_failed en vez de fallar al arrancar.
func newSMSSender(cfg *config.Config, logger *zap.Logger) sms.Sender {
	switch cfg.SMSProvider {
	case "log", "":
		logger.Warn("sms provider is log, codes are written to the log only")
		return sms.NewLogSender(logger)
	case "clicksend":
		sender, err := sms.NewClickSendSender(cfg.ClickSendBaseURL, cfg.ClickSendUsername, cfg.ClickSendAPIKey, cfg.SMSSenderID)
		if err != nil {
			logger.Warn("clicksend sender init failed", zap.Error(err))
			return sms.NewDisabledSender("sms sender not configured")
		}
		return sender
	case "twilio":
		sender, err := sms.NewTwilioSender(cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		if err != nil {
			logger.Warn("twilio sender init failed", zap.Error(err))
			return sms.NewDisabledSender("sms sender not configured")
		}
		return sender
	default:
		logger.Warn("unknown sms provider", zap.String("provider", cfg.SMSProvider))
		return sms.NewDisabledSender("unknown sms provider " + cfg.SMSProvider)
	}
}
