package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/config"
	"github.com/clinassign/clinassign-backend-go/internal/domain/attendance"
	"github.com/clinassign/clinassign-backend-go/internal/domain/user"
	appHTTP "github.com/clinassign/clinassign-backend-go/internal/handler/http"
	"github.com/clinassign/clinassign-backend-go/internal/handler/http/response"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/cron"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/database"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/events"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/jwt"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/logger"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/ratelimit"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/sse"
	"github.com/clinassign/clinassign-backend-go/internal/pkg/storage"
	"github.com/clinassign/clinassign-backend-go/internal/repository/memory"
	"github.com/clinassign/clinassign-backend-go/internal/repository/postgresql"
	attendanceService "github.com/clinassign/clinassign-backend-go/internal/service/attendance"
	serviceAuth "github.com/clinassign/clinassign-backend-go/internal/service/auth"
	profileService "github.com/clinassign/clinassign-backend-go/internal/service/profile"
	reportService "github.com/clinassign/clinassign-backend-go/internal/service/report"
	"golang.org/x/sync/errgroup"
)

const (
	exportCleanupInterval = time.Hour
	shutdownTimeout       = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// stores bundles the repositories for the configured backend.
type stores struct {
	attendance attendance.AttendanceRepository
	profiles   user.ProfileRepository
	tx         attendance.Transactor
	ready      appHTTP.ReadinessChecker
	close      func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.App.StoreType {
	case config.StoreTypeMemory:
		slog.Warn("Using in-memory store; data is lost on restart")
		return &stores{
			attendance: memory.NewAttendanceRepository(),
			profiles:   memory.NewProfileRepository(),
			tx:         memory.Transactor{},
			close:      func() {},
		}, nil

	case config.StoreTypePostgres:
		dsn := cfg.DatabaseURL()
		if err := database.Migrate(dsn); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		return &stores{
			attendance: postgresql.NewAttendanceRepository(db),
			profiles:   postgresql.NewProfileRepository(db),
			tx:         postgresql.NewTransactor(db),
			ready:      db,
			close:      db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store type: %s", cfg.App.StoreType)
}

func newFileStorage(cfg config.StorageConfig) (storage.FileStorage, error) {
	switch cfg.Type {
	case "local":
		return storage.NewLocalStorage(cfg.BasePath, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func newLoginLimiter(cfg *config.Config) ratelimit.Limiter {
	if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
		client := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		return ratelimit.NewRedisLimiter(client, "clinassign:ratelimit", cfg.RateLimit.Capacity, time.Minute)
	}
	return ratelimit.NewTokenBucket(cfg.RateLimit.Capacity, cfg.RateLimit.PerMinute)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.Options{
		App:     cfg.App.Name,
		Version: cfg.App.Version,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	slog.SetDefault(log)

	policy, err := config.LoadPolicy(cfg.Policy.File)
	if err != nil {
		return fmt.Errorf("load role policy: %w", err)
	}
	response.ExposeInternalErrors(cfg.App.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	fileStorage, err := newFileStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	hub := sse.NewHub()
	publisher := events.Multi{events.NewHubPublisher(hub)}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.ConnectNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix, cfg.App.Name)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer natsPublisher.Close()
		publisher = append(publisher, natsPublisher)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	profiles := profileService.NewProfileService(store.profiles, cfg.Cache.ProfileSize, cfg.Cache.ProfileTTL)
	authSvc := serviceAuth.NewAuthService(store.profiles, profiles, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(store.attendance, store.tx, policy, publisher)
	reportSvc := reportService.NewReportService(store.attendance, fileStorage, policy)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         log,
		AllowedOrigins: cfg.App.AllowedOrigins,
		Policy:         policy,
		JWTService:     jwtService,
		Profiles:       profiles,
		LoginLimiter:   newLoginLimiter(cfg),

		AuthHandler:       appHTTP.NewAuthHandler(authSvc),
		AttendanceHandler: appHTTP.NewAttendanceHandler(attendanceSvc),
		ReportHandler:     appHTTP.NewReportHandler(reportSvc),
		EventsHandler:     appHTTP.NewEventsHandler(hub, jwtService, profiles, policy),
		HealthHandler:     appHTTP.NewHealthHandler(cfg.App.Version, store.ready),
		FileHandler:       appHTTP.NewFileHandler(fileStorage),
	})

	scheduler := cron.NewScheduler(log)
	cron.NewExportCleanup(fileStorage, reportService.ExportPrefix, cfg.Storage.ExportRetention).
		Register(scheduler, exportCleanupInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown waits for active connections, so open event streams must end first
	srv.RegisterOnShutdown(hub.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server running", "addr", srv.Addr, "store", cfg.App.StoreType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
