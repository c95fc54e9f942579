package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	"github.com/pixellab01/dashboard/internal/config"
	"github.com/pixellab01/dashboard/internal/handler"
	"github.com/pixellab01/dashboard/internal/infrastructure/cache"
	infradb "github.com/pixellab01/dashboard/internal/infrastructure/database"
	"github.com/pixellab01/dashboard/internal/router"
	"github.com/pixellab01/dashboard/internal/usecase"
	"github.com/pixellab01/dashboard/internal/watch"
	"github.com/pixellab01/dashboard/internal/worker"
	dbpkg "github.com/pixellab01/dashboard/pkg/database"
	"github.com/pixellab01/dashboard/pkg/logger"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "dashboard-apiserver",
	Short: "Shipping analytics API server",
	Long: `Dashboard API Server is a high-performance HTTP API server built with the Hertz framework.
It ingests shipping and order export files, normalizes them into canonical rows,
and serves filtered analytics reports over a REST API.`,
	Version: version,
	Run:     runServer,
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	Run:   runCreateAdmin,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")

	createAdminCmd.Flags().String("username", "admin", "admin username")
	createAdminCmd.Flags().String("password", "", "admin password (required)")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runCreateAdmin(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	dbClient, _, err := dbpkg.NewClient(cfg.Database, slog.Default())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbpkg.Close(dbClient, slog.Default()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	userRepo := infradb.NewUserRepository(dbClient)
	userUsecase := usecase.NewUserUsecase(userRepo, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := userUsecase.Register(ctx, username, password)
	if err != nil {
		slog.Error("failed to create admin user", "username", username, "error", err)
		os.Exit(1)
	}
	slog.Info("admin user created", "username", user.Username, "user_id", user.ID)
}

func runServer(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("config loaded successfully", "config_file", cfgFile)
	slog.Info("Dashboard API Server starting...",
		"version", version,
		"config", cfgFile,
	)

	// Route Hertz's own logging through slog
	hertzLogger := logger.NewHertzSlogAdapter(slog.Default())
	hlog.SetLogger(hertzLogger)
	hlog.SetLevel(hlog.LevelDebug)

	// Initialize database
	dbClient, sqlDB, err := dbpkg.NewClient(cfg.Database, slog.Default())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	slog.Info("database connected successfully")

	// Initialize dataset store (Redis)
	store := cache.NewDatasetStore(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.DataTTL,
		slog.Default(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Ping(ctx); err != nil {
		cancel()
		slog.Error("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
		os.Exit(1)
	}
	cancel()

	slog.Info("redis connected successfully", "addr", cfg.Redis.Addr)

	// Initialize user components
	userRepo := infradb.NewUserRepository(dbClient)
	userUsecase := usecase.NewUserUsecase(userRepo, slog.Default())
	userHandler := handler.NewUserHandler(userUsecase, cfg.JWT.Secret, slog.Default())

	// Initialize dataset and report components
	datasetUsecase := usecase.NewDatasetUsecase(store, cfg.Redis.DataTTL, slog.Default())
	reportUsecase := usecase.NewReportUsecase(store, slog.Default())

	// Background report workers
	runner := worker.NewRunner(reportUsecase, cfg.Worker.Count, cfg.Worker.QueueSize, slog.Default())
	runCtx, stopWorkers := context.WithCancel(context.Background())
	runner.Start(runCtx)

	// Export directory watcher
	watcher := watch.New(cfg.Ingest.WatchDir, datasetUsecase, slog.Default())
	if err := watcher.Backfill(runCtx); err != nil {
		slog.Warn("watch dir backfill failed", "error", err)
	}
	if err := watcher.Start(runCtx); err != nil {
		slog.Warn("file watcher disabled", "error", err)
	}

	datasetHandler := handler.NewDatasetHandler(datasetUsecase, store, cfg.Ingest.MaxFileSize)
	reportHandler := handler.NewReportHandler(reportUsecase, runner)
	healthHandler := handler.NewHealthHandler(store, sqlDB)

	slog.Info("handlers initialized")

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.GetReadTimeout()),
		server.WithWriteTimeout(cfg.GetWriteTimeout()),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	// Setup routes
	router.Setup(h, userHandler, datasetHandler, reportHandler, healthHandler)

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	// Stop background workers and the watcher
	stopWorkers()
	runner.Stop()

	if err := store.Close(); err != nil {
		slog.Error("failed to close redis client", "error", err)
	}

	if err := dbpkg.Close(dbClient, slog.Default()); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	slog.Info("server stopped gracefully")
}
