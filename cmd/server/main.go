package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"doccompare/internal/auth"
	rediscache "doccompare/internal/cache/redis"
	"doccompare/internal/config"
	"doccompare/internal/handler"
	"doccompare/internal/metrics"
	"doccompare/internal/port"
	"doccompare/internal/repository/postgres"
	"doccompare/internal/router"
	"doccompare/internal/service"
	miniostorage "doccompare/internal/storage/minio"
	s3storage "doccompare/internal/storage/s3"
	"doccompare/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	ruleRepo := postgres.NewRuleRepo(db)
	groupRepo := postgres.NewGroupRepo(db)
	docRepo := postgres.NewUploadedDocumentRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	// Initialize storage
	storage, err := newObjectStorage(ctx, cfg)
	if err != nil {
		return err
	}

	// Set details cache is optional
	var rdb *redis.Client
	var setCache port.SetDetailsCache
	if cfg.Redis.Enabled() {
		rdb, err = rediscache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		setCache = rediscache.NewSetDetailsCache(rdb)
		log.Printf("Set details cache enabled (%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	trackerClient := tracker.NewClient(&cfg.Tracker)
	guard := service.NewOwnershipGuard(cfg.Analysis.OpaqueOwnership)

	// Initialize services
	ruleSvc := service.NewRuleService(ruleRepo, guard)
	groupSvc := service.NewGroupService(groupRepo, docRepo, storage, cfg.Storage.Bucket, guard)
	uploadSvc := service.NewUploadService(groupSvc, docRepo, storage, cfg.Storage.Bucket, cfg.Storage.PresignExpiry, cfg.Upload.MaxBytes(), guard)
	sessionSvc := service.NewSessionService(sessionRepo, guard)
	remoteSetSvc := service.NewRemoteSetService(trackerClient)
	analysisSvc := service.NewAnalysisService(
		service.NewRuleResolver(ruleRepo, guard),
		guard,
		groupRepo,
		[]service.DocumentSource{
			service.NewRemoteSetSource(trackerClient, setCache, cfg.Redis.TTL),
			service.NewUploadedGroupSource(docRepo, storage, cfg.Storage.Bucket, cfg.Analysis.DownloadConcurrency, m),
		},
		service.NewDispatcher(trackerClient),
		service.NewSessionManager(sessionRepo),
		m,
	)

	// Start stale session reaper
	reaper := service.NewSessionReaper(sessionRepo, service.SessionReaperConfig{
		PollInterval: time.Duration(cfg.Reaper.PollIntervalSecs) * time.Second,
		StaleAfter:   cfg.Reaper.StaleAfter,
	}, m)
	go reaper.Start(ctx)

	// Setup router
	r := router.Setup(auth.NewHMACVerifier(&cfg.JWT), &router.Handlers{
		Analysis:  handler.NewAnalysisHandler(analysisSvc),
		Rule:      handler.NewRuleHandler(ruleSvc),
		Group:     handler.NewGroupHandler(groupSvc, uploadSvc),
		Document:  handler.NewDocumentHandler(uploadSvc),
		Session:   handler.NewSessionHandler(sessionSvc),
		RemoteSet: handler.NewRemoteSetHandler(remoteSetSvc, sessionSvc),
		Health:    handler.NewHealthHandler(db, rdb),
	}, m.Handler(), cfg.CORS.AllowedOrigins, cfg.Log.MinRequestStatus())

	server := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newObjectStorage(ctx context.Context, cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "minio":
		storage, err := miniostorage.NewMinIOClient(&cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
		}
		if err := miniostorage.EnsureBucket(ctx, storage, cfg.Storage.Bucket); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
		return storage, nil
	default:
		storage, err := s3storage.New(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return storage, nil
	}
}
