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
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/repository/memory"
	"github.com/mamadbah2/hatchery/internal/repository/mongodb"
	"github.com/mamadbah2/hatchery/internal/repository/sheets"
	"github.com/mamadbah2/hatchery/internal/repository/sqlite"
	"github.com/mamadbah2/hatchery/internal/scheduler"
	"github.com/mamadbah2/hatchery/internal/server/handlers"
	"github.com/mamadbah2/hatchery/internal/server/router"
	batchsvc "github.com/mamadbah2/hatchery/internal/service/batches"
	commandsvc "github.com/mamadbah2/hatchery/internal/service/commands"
	digestsvc "github.com/mamadbah2/hatchery/internal/service/digest"
	historysvc "github.com/mamadbah2/hatchery/internal/service/history"
	whatsappsvc "github.com/mamadbah2/hatchery/internal/service/whatsapp"
	"github.com/mamadbah2/hatchery/internal/species"
	whatsappclient "github.com/mamadbah2/hatchery/pkg/clients/whatsapp"
	"github.com/mamadbah2/hatchery/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.NewWithLevel(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Schedule.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	clock := func() time.Time { return time.Now().In(loc) }

	speciesTable, err := species.LoadFile(cfg.Species.File)
	if err != nil {
		baseLogger.Fatal("failed to load species table", zap.Error(err))
	}
	baseLogger.Info("species table loaded", zap.Int("species", speciesTable.Len()), zap.String("file", cfg.Species.File))

	repo, closeRepo, err := openRepository(context.Background(), cfg)
	if err != nil {
		baseLogger.Fatal("failed to init batch repository", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	defer func() {
		if err := closeRepo(); err != nil {
			baseLogger.Error("failed to close batch repository", zap.Error(err))
		}
	}()
	baseLogger.Info("batch repository ready", zap.String("driver", cfg.Storage.Driver))

	batchService := batchsvc.NewService(repo, speciesTable, baseLogger.Named("svc.batches"), batchsvc.WithClock(clock))
	digestService := digestsvc.NewService(batchService, clock, baseLogger.Named("svc.digest"))

	h := router.Handlers{
		Batches:  handlers.NewBatchHandler(batchService, baseLogger.Named("handlers.batches")),
		Overview: handlers.NewOverviewHandler(batchService, speciesTable, baseLogger.Named("handlers.overview")),
		Stream:   handlers.NewStreamHandler(batchService, baseLogger.Named("handlers.stream")),
	}

	var sender scheduler.Sender
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(batchService, digestService, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		h.Webhook = handlers.NewWebhookHandler(messagingSvc, cfg.WhatsApp.AppSecret, baseLogger.Named("handlers.whatsapp"))
		sender = messagingSvc
	} else {
		baseLogger.Warn("whatsapp credentials missing, webhook and daily digest disabled")
	}

	var exporter scheduler.HistoryExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = historysvc.NewExporter(batchService, sheetsRepo, clock, baseLogger.Named("svc.history"))
	} else {
		baseLogger.Warn("google sheets not configured, history export disabled")
	}

	engine := router.New(h, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, loc, digestService, sender, exporter, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// No WriteTimeout: /api/stream keeps its response open.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openRepository builds the configured BatchRepository and its close function.
func openRepository(ctx context.Context, cfg *config.Config) (repository.BatchRepository, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		repo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return repo.Close(closeCtx)
		}, nil
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageMemory:
		return memory.NewStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
