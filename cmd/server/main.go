package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cabpool/internal/cache"
	"github.com/cabpool/internal/config"
	"github.com/cabpool/internal/db"
	"github.com/cabpool/internal/handler"
	"github.com/cabpool/internal/logger"
	"github.com/cabpool/internal/metrics"
	"github.com/cabpool/internal/router"
	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd 构建命令树；不带子命令时启动 HTTP 服务
func newRootCmd() *cobra.Command {
	var cfg config.AppConfig

	root := &cobra.Command{
		Use:           "cabpool",
		Short:         "Cab-pooling marketing site and content admin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Init(cfg.Env)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	})

	var username, password string
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
				return errors.New("--username and --password are required")
			}
			if err := db.Init(cfg.DatabaseDriver, cfg.DSN()); err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			created, err := db.EnsureUser(db.DB, username, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", strings.TrimSpace(username))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q already exists\n", strings.TrimSpace(username))
			}
			return nil
		},
	}
	createAdmin.Flags().StringVar(&username, "username", "", "admin username")
	createAdmin.Flags().StringVar(&password, "password", "", "admin password")
	root.AddCommand(createAdmin)

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Write the default content into empty tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Init(cfg.DatabaseDriver, cfg.DSN()); err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			result, err := service.SeedDefaults(db.DB)
			if err != nil {
				return fmt.Errorf("seed defaults: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded navigation=%d faqs=%d team=%d settings=%t\n",
				result.Navigation, result.FAQs, result.Team, result.Settings)
			return nil
		},
	})

	return root
}

func runServe(ctx context.Context, cfg config.AppConfig) error {
	log := logger.L()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DSN()); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if created, err := db.EnsureUser(db.DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	} else if created {
		log.Info("bootstrap admin created", zap.String("username", cfg.AdminUsername))
	}

	var store cache.Store = cache.NopStore{}
	if cfg.RedisURL != "" {
		redisStore, err := cache.Connect(ctx, cfg.RedisURL, "cabpool:")
		if err != nil {
			log.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if !cfg.IsDevelopment() && cfg.SessionSecret == "cabpool-dev-secret" {
		log.Warn("SESSION_SECRET is using the development default")
	}

	m := metrics.New()
	api := handler.NewAPI(db.DB, handler.Options{
		UploadDir:      cfg.UploadDir,
		UploadURL:      cfg.UploadURLPath,
		UploadMaxBytes: cfg.UploadMaxBytes,
		Cache:          store,
		CacheTTL:       cfg.CacheTTL,
		Metrics:        m,
	})
	engine := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURL:     cfg.UploadURLPath,
		Secure:        strings.HasPrefix(cfg.SiteBaseURL, "https://"),
		Metrics:       m,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.ListenAddr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
