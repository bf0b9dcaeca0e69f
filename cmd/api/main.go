package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/internal/api"
	"github.com/JordanChem/VideoGame-prediction/internal/api/handlers"
	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/evaluation"
	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/internal/metrics"
	"github.com/JordanChem/VideoGame-prediction/pkg/config"
	appLogger "github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a config file; searched in ., ./config and /etc/salesforecast when empty")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting sales forecast server")

	metrics.Init()

	table, err := dataset.LoadXLSX(cfg.Dataset.Path, cfg.Dataset.Sheet, columns(cfg.Dataset.Columns))
	if err != nil {
		appLogger.Fatal("Failed to load training data", zap.String("path", cfg.Dataset.Path), zap.Error(err))
	}

	reference, err := forecast.ParseDate("model.referenceDate", cfg.Model.ReferenceDate)
	if err != nil {
		appLogger.Fatal("Invalid reference date", zap.Error(err))
	}

	if lo, hi, ok := table.LagDayRange(); ok {
		appLogger.Info("Dataset lag_day range",
			zap.String("reference_date", reference.Format(forecast.DateLayout)),
			zap.Int64("min", lo),
			zap.Int64("max", hi),
		)
	}

	bank, err := forecast.Train(table.Records, forecast.WithReferenceDate(reference))
	if err != nil {
		appLogger.Fatal("Failed to train model bank", zap.Error(err))
	}
	metrics.RecordBank(bank)

	evaluator := evaluation.NewEvaluator(bank, table)
	appLogger.Info(evaluator.GenerateReport(evaluator.Evaluate()))

	sampler, err := forecast.NewCurveSampler(bank, forecast.WithPoints(cfg.Model.CurvePoints))
	if err != nil {
		appLogger.Fatal("Failed to create curve sampler", zap.Error(err))
	}

	defaults, err := handlers.DefaultsFromConfig(cfg.Input)
	if err != nil {
		appLogger.Fatal("Invalid input defaults", zap.Error(err))
	}

	server := api.NewServer(cfg, api.Deps{
		Table:     table,
		Predictor: forecast.NewPredictor(bank),
		Sampler:   sampler,
		Defaults:  defaults,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	if err := server.Shutdown(); err != nil {
		appLogger.Error("Shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func columns(c config.ColumnsConfig) dataset.Columns {
	return dataset.Columns{
		Name:         c.Name,
		TrailerViews: c.TrailerViews,
		LagDay:       c.LagDay,
		Instagram:    c.Instagram,
		Facebook:     c.Facebook,
		TikTok:       c.TikTok,
		GlobalSales:  c.GlobalSales,
	}
}
