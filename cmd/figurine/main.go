package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/theheadmen/figurine/internal/dbconnector"
	"github.com/theheadmen/figurine/internal/logger"
	"github.com/theheadmen/figurine/internal/mailer"
	"github.com/theheadmen/figurine/internal/server"
	"github.com/theheadmen/figurine/internal/serverconfig"
	"github.com/theheadmen/figurine/internal/upload"
)

func main() {
	defer logger.Sync()

	configStore := serverconfig.NewConfigStore()
	configStore.ParseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbconnector.OpenDBConnect(configStore.FlagDBDriver, configStore.FlagDatabase)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.DBInitialize(); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	if err := os.MkdirAll(configStore.FlagUploadDir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	uploads := upload.NewPolicy(configStore.FlagUploadDir, configStore.AllowedExts)
	mail := mailer.NewMailer(configStore.Mail)

	ls := server.NewServerSystem(db, configStore, mail, uploads)
	srv := ls.MakeServer(configStore.FlagRunAddr)

	go func() {
		logger.Info("starting server", zap.String("addr", configStore.FlagRunAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
