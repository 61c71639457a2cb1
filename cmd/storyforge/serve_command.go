package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"storyforge/internal/api"
	"storyforge/internal/casestudy"
	"storyforge/internal/logging"
	"storyforge/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Storyforge API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "storyforge.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another storyforge instance is already running")
			}
			defer func() {
				_ = lock.Unlock()
			}()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			logging.CleanupOldLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays)

			store, err := casestudy.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			svc, err := api.NewService(cfg, store, api.DefaultDeps(cfg), logger)
			if err != nil {
				return fmt.Errorf("build service: %w", err)
			}

			srv, err := server.New(cfg, svc, logger)
			if err != nil {
				return fmt.Errorf("build server: %w", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(runCtx); err != nil {
				return err
			}
			logger.Info("storyforge serving",
				slog.String("address", srv.Addr()),
				slog.String("lock", lockPath))

			<-runCtx.Done()
			srv.Stop()
			logger.Info("storyforge stopped")
			return nil
		},
	}
}
