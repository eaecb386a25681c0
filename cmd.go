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

	"github.com/go-chi/docgen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SergeyParamoshkin/forum/internal/config"
	"github.com/SergeyParamoshkin/forum/internal/httpapi"
	"github.com/SergeyParamoshkin/forum/internal/logging"
	"github.com/SergeyParamoshkin/forum/internal/metrics"
	"github.com/SergeyParamoshkin/forum/internal/persist"
	"github.com/SergeyParamoshkin/forum/internal/store"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:          "forum",
		Short:        "Forum API server",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	// the bare command behaves like "forum serve"
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newRoutesCmd())

	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API and diagnostics servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.String("port", "", "API listen port (PORT)")
	f.String("diag-addr", "", "diagnostics listen address (DIAG_ADDR)")
	f.Bool("test-mode", false, "neither load nor save the store (IS_TEST_MODE)")
	f.String("store", "", "store driver: yaml, sqlite, redis or memory (STORE_DRIVER)")
	f.String("store-path", "", "file for the yaml and sqlite drivers (STORE_PATH)")
	f.String("redis-url", "", "redis connection url (REDIS_URL)")
	f.String("redis-key", "", "redis key holding the store (REDIS_KEY)")
	f.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	return cmd
}

func newRoutesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route documentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mux := httpapi.New(store.New(), httpapi.Options{}).Mux()

			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), docgen.JSONRoutesDoc(mux))

				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), docgen.MarkdownRoutesDoc(mux, docgen.MarkdownOpts{
				ProjectPath: "github.com/SergeyParamoshkin/forum",
				Intro:       "Routes of the forum API.",
			}))

			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of Markdown")

	return cmd
}

// loadConfig reads the environment and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"port":       &cfg.Port,
		"diag-addr":  &cfg.DiagAddr,
		"store":      &cfg.StoreDriver,
		"store-path": &cfg.StorePath,
		"redis-url":  &cfg.RedisURL,
		"redis-key":  &cfg.RedisKey,
		"log-level":  &cfg.LogLevel,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("test-mode") {
		cfg.TestMode, _ = flags.GetBool("test-mode")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := metrics.New(ServiceName)
	if err != nil {
		return err
	}

	backend, err := persist.Open(ctx, persist.Options{
		Driver:   cfg.StoreDriver,
		Path:     cfg.StorePath,
		RedisURL: cfg.RedisURL,
		RedisKey: cfg.RedisKey,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			sugar.Errorw("failed to close store", "error", err)
		}
	}()

	s, err := loadStore(ctx, cfg, backend, sugar)
	if err != nil {
		return err
	}

	api := httpapi.New(s, httpapi.Options{
		Backend:  backend,
		Driver:   cfg.StoreDriver,
		TestMode: cfg.TestMode,
		Metrics:  m,
		Logger:   sugar,
	})

	apiServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	diagServer := &http.Server{
		Addr:              cfg.DiagAddr,
		Handler:           httpapi.DiagHandler(m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("api server listening", "addr", apiServer.Addr)

		return listen(apiServer)
	})
	g.Go(func() error {
		sugar.Infow("diag server listening", "addr", diagServer.Addr)

		return listen(diagServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Infow("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return errors.Join(apiServer.Shutdown(shutdownCtx), diagServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

// loadStore restores the saved snapshot, or starts empty in test mode or
// when nothing was saved yet.
func loadStore(ctx context.Context, cfg *config.Config, backend persist.Backend, sugar *zap.SugaredLogger) (*store.Store, error) {
	s := store.New()
	if cfg.TestMode {
		sugar.Infow("test mode, starting with an empty store")

		return s, nil
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s store: %w", cfg.StoreDriver, err)
	}
	if snap == nil {
		sugar.Infow("no saved store, starting empty", "driver", cfg.StoreDriver)

		return s, nil
	}

	s.Restore(snap)
	sugar.Infow("store loaded",
		"driver", cfg.StoreDriver,
		"revision", snap.Revision,
		"users", len(snap.Users),
		"articles", len(snap.Articles),
		"comments", len(snap.Comments),
	)

	return s, nil
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	return nil
}
