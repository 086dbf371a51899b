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
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/config"
	"github.com/mamadbah2/farmdash/internal/repository/kv"
	"github.com/mamadbah2/farmdash/internal/repository/mongodb"
	redisrepo "github.com/mamadbah2/farmdash/internal/repository/redis"
	"github.com/mamadbah2/farmdash/internal/repository/sheets"
	"github.com/mamadbah2/farmdash/internal/repository/sqlite"
	"github.com/mamadbah2/farmdash/internal/scheduler"
	"github.com/mamadbah2/farmdash/internal/server/handlers"
	"github.com/mamadbah2/farmdash/internal/server/router"
	analyticssvc "github.com/mamadbah2/farmdash/internal/service/analytics"
	commandsvc "github.com/mamadbah2/farmdash/internal/service/commands"
	farmsvc "github.com/mamadbah2/farmdash/internal/service/farm"
	remindersvc "github.com/mamadbah2/farmdash/internal/service/reminders"
	reportingsvc "github.com/mamadbah2/farmdash/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/farmdash/internal/service/whatsapp"
	"github.com/mamadbah2/farmdash/internal/store"
	whatsappclient "github.com/mamadbah2/farmdash/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmdash/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		baseLogger.Fatal("failed to open storage backend", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	st, err := store.Open(ctx, backend, logger.Named(baseLogger, "store"))
	if err != nil {
		baseLogger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()
	baseLogger.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	loc := cfg.Reporting.Location()

	farmSvc := farmsvc.NewService(st, logger.Named(baseLogger, "svc.farm"))
	reminderSvc := remindersvc.NewService(st, loc, logger.Named(baseLogger, "svc.reminders"))
	defer reminderSvc.Close()
	analyticsSvc := analyticssvc.NewService(st, loc, logger.Named(baseLogger, "svc.analytics"))
	reportingSvc := reportingsvc.NewService(st, reminderSvc, logger.Named(baseLogger, "svc.reporting"))

	var archive mongodb.Repository
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, report archive disabled")
	}

	var sheetRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = repo
	} else {
		baseLogger.Warn("google sheets credentials missing, spreadsheet export disabled")
	}

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp credentials missing, outbound messages disabled")
	}

	commandDispatcher := commandsvc.NewService(reminderSvc, farmSvc, reportingSvc, loc, logger.Named(baseLogger, "svc.commands"))
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, logger.Named(baseLogger, "svc.whatsapp"))

	apiHandler := handlers.NewAPIHandler(handlers.APIServices{
		Farm:      farmSvc,
		Reminders: reminderSvc,
		Analytics: analyticsSvc,
		Reporting: reportingSvc,
		Archive:   archive,
	}, loc, logger.Named(baseLogger, "handlers.api"))
	webhookHandler := handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
	engine := router.New(apiHandler, webhookHandler, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(*cfg, scheduler.Deps{
		Reports:   reportingSvc,
		Archive:   archive,
		Sheets:    sheetRepo,
		Messaging: messagingSvc,
		Sessions:  messagingSvc,
	}, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

func openBackend(ctx context.Context, cfg config.StorageConfig) (kv.Backend, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return kv.NewMemoryBackend(), nil
	case config.StorageSQLite:
		return sqlite.New(cfg.SQLitePath)
	case config.StorageRedis:
		return redisrepo.New(ctx, redisrepo.Options{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			Namespace: cfg.RedisNamespace,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
