package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/cache"
	"github.com/BruksfildServices01/salon-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-booking/internal/db"
	"github.com/BruksfildServices01/salon-booking/internal/handlers"
	"github.com/BruksfildServices01/salon-booking/internal/infra/repository"
	"github.com/BruksfildServices01/salon-booking/internal/lock"
	"github.com/BruksfildServices01/salon-booking/internal/logging"
	"github.com/BruksfildServices01/salon-booking/internal/media"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/routes"
	"github.com/BruksfildServices01/salon-booking/internal/telemetry"
	"github.com/BruksfildServices01/salon-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/salon-booking/internal/validators"
)

const serviceName = "salon-booking"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	hours, err := cfg.Hours()
	if err != nil {
		log.WithError(err).Fatal("invalid BUSINESS_HOURS")
	}
	scope, err := cfg.Scope()
	if err != nil {
		log.WithError(err).Fatal("invalid CONFLICT_SCOPE")
	}
	log.WithFields(logrus.Fields{
		"hours":          hours.String(),
		"slot_step":      hours.Step,
		"conflict_scope": scope,
	}).Info("booking policy loaded")

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to set up tracing")
	}

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get sql.DB")
	}

	checks := map[string]handlers.Check{
		"database": sqlDB.PingContext,
	}

	// ======================================================
	// LOCKING + AVAILABILITY CACHE
	// ======================================================
	var (
		locker       lock.Locker
		availability cache.AvailabilityCache = cache.Noop{}
	)

	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer rdb.Close()

		locker = lock.NewRedisLock(rdb, cfg.LockTTL, cfg.LockWait)
		availability = cache.NewRedisAvailability(rdb, cfg.AvailabilityCacheTTL, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("using redis for slot locks and availability cache")
	} else {
		km := lock.NewKeyedMutex()
		go km.RunJanitor(ctx, time.Minute, 10*time.Minute)
		locker = km
	}

	// ======================================================
	// AUDIT
	// ======================================================
	sinks := []audit.Sink{audit.New(db)}
	if cfg.KafkaBrokers != "" {
		kafkaSink := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	dispatcher := audit.NewDispatcher(log, sinks...)

	// ======================================================
	// MEDIA
	// ======================================================
	var images media.Store
	if cfg.S3Bucket != "" {
		s3Store, err := media.NewS3Store(media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.WithError(err).Fatal("failed to configure media storage")
		}
		images = s3Store
	}

	var emailCheck func(string) bool
	if cfg.CheckEmailDomain {
		emailCheck = validators.IsEmailDomainValid
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORSMiddleware(cfg.AllowedOrigins()))

	routes.RegisterRoutes(r, routes.Dependencies{
		DB:     db,
		Config: cfg,
		Log:    log,
		Booking: booking.Deps{
			Repo:   repository.NewBookingGormRepository(db),
			Locker: locker,
			Cache:  availability,
			Audit:  dispatcher,
			Log:    log,
			Hours:  hours,
			Scope:  scope,
			Retry: booking.RetryPolicy{
				Attempts:        cfg.StoreRetryAttempts,
				InitialInterval: cfg.StoreRetryInitial,
				MaxInterval:     2 * time.Second,
			},
			EnforceHours: cfg.EnforceBusinessHours,
			EmailCheck:   emailCheck,
		},
		Media:  images,
		Audit:  dispatcher,
		Checks: checks,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).
			WithField("scope", string(scope)).
			Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}
	dispatcher.Close()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown failed")
	}
	_ = sqlDB.Close()
}
