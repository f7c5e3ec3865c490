package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/config"
	"github.com/preechaw/sewline/internal/repository/mongodb"
	"github.com/preechaw/sewline/internal/repository/sheets"
	"github.com/preechaw/sewline/internal/scheduler"
	"github.com/preechaw/sewline/internal/server/handlers"
	"github.com/preechaw/sewline/internal/server/router"
	exportsvc "github.com/preechaw/sewline/internal/service/export"
	manhoursvc "github.com/preechaw/sewline/internal/service/manhour"
	performancesvc "github.com/preechaw/sewline/internal/service/performance"
	qualitysvc "github.com/preechaw/sewline/internal/service/quality"
	reportsvc "github.com/preechaw/sewline/internal/service/report"
	"github.com/preechaw/sewline/pkg/clients/llmchat"
	"github.com/preechaw/sewline/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	engine := reportsvc.NewEngine(repo, repo, repo, baseLogger.Named("svc.report"))
	manhours := manhoursvc.New(repo, baseLogger.Named("svc.manhour"))
	quality := qualitysvc.New(repo, baseLogger.Named("svc.quality"))
	performance := performancesvc.New(engine, quality, manhours, baseLogger.Named("svc.performance"))

	routerHandlers := router.Handlers{
		Report:      handlers.NewReportHandler(engine, baseLogger.Named("handlers.report")),
		Performance: handlers.NewPerformanceHandler(performance, baseLogger.Named("handlers.performance")),
		Quality:     handlers.NewQualityHandler(quality, baseLogger.Named("handlers.quality")),
		Breaks:      handlers.NewBreakHandler(repo, baseLogger.Named("handlers.breaks")),
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter := exportsvc.New(sheetsRepo, engine, quality, manhours, baseLogger.Named("svc.export"))
		routerHandlers.Export = handlers.NewExportHandler(exporter, baseLogger.Named("handlers.export"))
		baseLogger.Info("spreadsheet export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, spreadsheet export disabled")
	}

	if cfg.Chat.Enabled() {
		chatClient := llmchat.NewClient(cfg.Chat.BaseURL)
		routerHandlers.Chat = handlers.NewChatHandler(chatClient, baseLogger.Named("handlers.chat"))
		baseLogger.Info("chat assistant enabled", zap.String("url", cfg.Chat.BaseURL))
	} else {
		baseLogger.Warn("chat service url missing, assistant disabled")
	}

	ginEngine := router.New(routerHandlers, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, engine, repo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
