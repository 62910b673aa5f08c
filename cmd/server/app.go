package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/duorhuang/aquaflow-pro/internal/api"
	"github.com/duorhuang/aquaflow-pro/internal/cache"
	"github.com/duorhuang/aquaflow-pro/internal/config"
	"github.com/duorhuang/aquaflow-pro/internal/logging"
	"github.com/duorhuang/aquaflow-pro/internal/metrics"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
	"github.com/duorhuang/aquaflow-pro/internal/repository/memory"
	"github.com/duorhuang/aquaflow-pro/internal/repository/mongo"
	"github.com/duorhuang/aquaflow-pro/internal/seed"
	"github.com/duorhuang/aquaflow-pro/internal/service"
	"github.com/duorhuang/aquaflow-pro/internal/storage"
)

// app holds the wired services for one process.
type app struct {
	cfg      config.Config
	loc      *time.Location
	registry *prometheus.Registry
	metrics  *metrics.Manager
	services api.Services
	closers  []func()
}

func newApp(ctx context.Context, configDir string) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   cfg.Logging.Stdout,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, loc: loc, registry: prometheus.NewRegistry()}
	a.metrics = metrics.NewManager(cfg.Metrics.Namespace, "server", a.registry)

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var files storage.FileStorage
	if cfg.S3.BucketName != "" {
		files, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		log.Infof("plan export enabled, bucket %s", cfg.S3.BucketName)
	} else {
		log.Infoln("s3 bucket not configured, plan export disabled")
	}

	planCache := cache.NewPlanCache(cfg.Cache.SizeMB, cfg.Cache.TTL)

	authService, err := service.NewAuthService(store.Swimmers, cfg.Auth, cfg.JWT, nil)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init auth: %w", err)
	}
	a.services = api.Services{
		Auth:         authService,
		Plans:        service.NewPlanService(store.Plans, store.Templates, files, planCache, a.metrics, nil),
		Athletes:     service.NewAthleteService(store.Swimmers, store.Plans, store.Attendance, a.metrics, nil, loc),
		Performances: service.NewPerformanceService(store.Swimmers, store.Performances, a.metrics, nil, loc),
		Feedback:     service.NewFeedbackService(store.Swimmers, store.Plans, store.Feedback, a.metrics, nil, loc),
		Insights:     service.NewInsightService(store, nil, loc),
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) (*repository.Store, error) {
	if a.cfg.Database.Driver == config.DriverMemory {
		log.Warnln("using the in-memory store, data is lost on exit")
		return memory.NewStore(), nil
	}

	client, err := mongo.ConnectDB(a.cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	a.closers = append(a.closers, func() {
		log.Infoln("disconnecting mongo")
		if err := mongo.DisconnectDB(client); err != nil {
			log.Errorf("failed to disconnect mongo: %s", err)
		}
	})

	db := client.Database(a.cfg.Database.Name)
	idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(idxCtx, db); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	log.Infof("connected to mongo database %s", a.cfg.Database.Name)
	return mongo.NewStore(db), nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Seed applies the fixture at path, or the built-in one when path is empty.
func (a *app) Seed(ctx context.Context, path string) error {
	var (
		f   *seed.Fixture
		err error
	)
	if path == "" {
		f, err = seed.Default()
	} else {
		f, err = seed.Load(path)
	}
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, f, a.services.Athletes, a.services.Plans, time.Now().In(a.loc))
	return err
}

// Serve runs the HTTP server until SIGINT or SIGTERM.
func (a *app) Serve() error {
	gin.SetMode(a.cfg.Server.Mode)
	router := api.NewRouter(a.metrics)
	if a.cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}
	api.SetupRoutes(router, a.services.Auth.GetJWTSecret(), a.services)

	server := &http.Server{
		Addr:         a.cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("server starting on %s", a.cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}
	log.Infoln("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Infoln("server exiting")
	return nil
}
