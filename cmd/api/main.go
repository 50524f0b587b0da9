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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/hesab/internal/backup"
	"github.com/MrJamesThe3rd/hesab/internal/config"
	"github.com/MrJamesThe3rd/hesab/internal/database"
	hesabHttp "github.com/MrJamesThe3rd/hesab/internal/http"
	backupHandler "github.com/MrJamesThe3rd/hesab/internal/http/backup"
	ledgerHandler "github.com/MrJamesThe3rd/hesab/internal/http/ledger"
	txHandler "github.com/MrJamesThe3rd/hesab/internal/http/transaction"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
	txStore "github.com/MrJamesThe3rd/hesab/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tag := cfg.Language()

	var (
		transactionService = transaction.NewService(txStore.New(db), jalali.SystemClock)
		backupService      = backup.NewService(transactionService, jalali.SystemClock)
	)

	var (
		ledgerH      = ledgerHandler.NewHandler(transactionService, tag)
		transactionH = txHandler.NewHandler(transactionService, tag)
		backupH      = backupHandler.NewHandler(backupService)
	)

	router := hesabHttp.New(cfg.Server.CORSOrigins, ledgerH, transactionH, backupH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
