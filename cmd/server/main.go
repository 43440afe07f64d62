package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"quotehub/internal/commons"
	"quotehub/internal/company"
	"quotehub/internal/config"
	"quotehub/internal/infrastructure/logger"
	"quotehub/internal/infrastructure/mysql"
	"quotehub/internal/quotation"
	"quotehub/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.Bootstrap(context.Background(), db); err != nil {
		zapLogger.Fatal("bootstrapping schema", zap.Error(err))
	}
	zapLogger.Info("schema ready")

	companyCtrl, err := company.NewModule(db, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("wiring company module", zap.Error(err))
	}
	quotationCtrl := quotation.NewModule(db, cfg, zapLogger)

	router := server.NewRouter(companyCtrl, quotationCtrl, cfg.Upload.Dir, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
