package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/castlebank/ledgerstore/internal/adapter/driven/bcrypthash"
	"github.com/castlebank/ledgerstore/internal/adapter/driven/filelock"
	"github.com/castlebank/ledgerstore/internal/adapter/driven/jsonfile"
	"github.com/castlebank/ledgerstore/internal/adapter/driven/uuidgen"
	"github.com/castlebank/ledgerstore/internal/application"
	"github.com/castlebank/ledgerstore/internal/config"
	"github.com/castlebank/ledgerstore/internal/domain/model"
	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// Startup failure exit codes, distinguishable by supervisors.
const (
	exitGeneric         = 1
	exitLockHeld        = 2
	exitSnapshotRead    = 3
	exitSnapshotCorrupt = 4
	exitIntegrity       = 5
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps fatal startup errors to distinct process statuses.
func exitCode(err error) int {
	var integrity *model.IntegrityError
	switch {
	case errors.Is(err, driven.ErrLockHeld):
		return exitLockHeld
	case errors.Is(err, driven.ErrSnapshotRead):
		return exitSnapshotRead
	case errors.Is(err, driven.ErrSnapshotCorrupt):
		return exitSnapshotCorrupt
	case errors.As(err, &integrity):
		return exitIntegrity
	default:
		return exitGeneric
	}
}

func run() error {
	// 0. Load .env for local development, then configuration.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"data_file", cfg.DataFile,
		"lock_file", cfg.LockFile,
		"flush_debounce", cfg.FlushDebounce,
	)

	// 1. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Acquire exclusivity and restore the snapshot.
	snaps := jsonfile.New(cfg.DataFile)
	loader := application.NewLoader(filelock.New(cfg.LockFile), snaps)
	store, err := loader.Load()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := loader.Close(); closeErr != nil {
			slog.Error("error releasing instance lock", "error", closeErr)
		}
	}()

	// 3. Wire the scheduler and services.
	scheduler := application.NewFlushScheduler(snaps, store.Snapshot, cfg.FlushDebounce)
	accounts := application.NewAccountService(store, bcrypthash.New(), uuidgen.New(), scheduler, cfg.MinCredentialLen)
	ledger := application.NewLedger(store)
	transfers := application.NewTransferService(store, ledger, scheduler)

	snap := store.Snapshot()
	slog.Info("ledger store opened",
		"accounts", len(snap.Accounts),
		"transfers", len(snap.Transfers),
	)

	// 4. Serve the console until EOF, quit, or a shutdown signal.
	con := &console{accounts: accounts, ledger: ledger, transfers: transfers, out: os.Stdout}
	con.run(ctx, os.Stdin)
	slog.Info("shutting down")

	// 5. Final durable snapshot before the lock is released.
	if err := scheduler.FlushNow(); err != nil {
		slog.Error("final flush failed", "error", err)
	}
	slog.Info("shutdown complete")
	return nil
}
