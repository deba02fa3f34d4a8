package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rrrconstruction/portfolio/internal/adapters/repository"
	"github.com/rrrconstruction/portfolio/internal/adapters/storage"
	"github.com/rrrconstruction/portfolio/internal/application/services"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/server"
)

// Set at build time with -ldflags "-X .../commands.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio web server",
		Long:  "Start the portfolio web server, seeding the admin credentials on first run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// NewAdminCommand creates the admin management command
func NewAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin credential commands",
	}

	adminCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the admin credentials from the configured defaults if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, store, err := bootstrap()
			if err != nil {
				return err
			}
			defer appLogger.Close()

			created, err := seedAdmin(cmd.Context(), cfg, store, appLogger)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin credentials created for %q in %s\n",
					cfg.Admin.DefaultUsername, store.Path(database.AdminFile))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin credentials already exist in %s\n", store.Path(database.AdminFile))
			}
			return nil
		},
	})

	return adminCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the portfolio server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Portfolio %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

func bootstrap() (*config.Config, *logger.Logger, *database.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := database.New(cfg.Storage, appLogger)
	if err != nil {
		appLogger.Close()
		return nil, nil, nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	return cfg, appLogger, store, nil
}

func seedAdmin(ctx context.Context, cfg *config.Config, store *database.Store, appLogger *logger.Logger) (bool, error) {
	auth := services.NewAuthService(repository.NewAdminRepository(store), cfg.Admin, cfg.Session, appLogger)
	created, err := auth.EnsureAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to seed admin credentials: %w", err)
	}
	return created, nil
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, appLogger, store, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	uploads, err := storage.NewUploadManager(cfg.Storage, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open uploads directory: %w", err)
	}

	if _, err := seedAdmin(parent, cfg, store, appLogger); err != nil {
		return err
	}

	srv, err := server.New(cfg, store, uploads, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Starting portfolio server",
		"address", cfg.Server.GetAddr(),
		"environment", cfg.App.Environment,
		"data_dir", store.Dir(),
		"uploads_dir", uploads.Dir(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	appLogger.Info("Server stopped")
	return nil
}
