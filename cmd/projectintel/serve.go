package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	v1 "projectintel/internal/api/v1"
	"projectintel/internal/config"
	"projectintel/internal/importer"
	"projectintel/internal/server"
	"projectintel/internal/service/dashboard"
	memstore "projectintel/internal/service/store"
	"projectintel/internal/sheets"
	"projectintel/internal/store"
	"projectintel/internal/util"
)

func newServeCmd() *cobra.Command {
	var (
		port    int
		devMode bool
		dataDir string
		open    bool
		watch   bool
	)
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the dashboard API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			// 命令行参数覆盖配置；config.toml 显式配置的端口优先
			if port > 0 && !a.info.PortSpecified {
				a.cfg.Server.Port = port
			}
			if devMode {
				a.cfg.Server.DevMode = true
			}
			if dataDir != "" {
				a.cfg.Data.DataDir = dataDir
			}
			if watch {
				a.cfg.Data.Watch = true
			}
			if len(args) == 1 {
				a.cfg.Source.DefaultFile = args[0]
			}
			return runServe(cmd.Context(), a, open)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "server port (ignored when config.toml sets one)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "development mode")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	cmd.Flags().BoolVar(&open, "open", false, "open the dashboard in a browser")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the default file when it changes")
	return cmd
}

func runServe(ctx context.Context, a *app, open bool) error {
	logger := a.logger

	dir, err := config.EnsureDataDir(a.cfg)
	if err != nil {
		logger.Warn("create data dir failed", zap.Error(err))
	} else {
		logger.Info("data dir", zap.String("path", dir))
	}

	cache, err := store.New(config.CacheDSN(a.cfg))
	if err != nil {
		return fmt.Errorf("open session cache: %w", err)
	}
	defer cache.Close()

	memory := memstore.NewMemoryStore()
	coord := importer.NewCoordinator(a.engine, memory, cache, logger)
	httpClient := &http.Client{Timeout: 60 * time.Second}

	api := v1.NewHandler(v1.Deps{
		Memory:      memory,
		Engine:      a.engine,
		Coordinator: coord,
		Session:     dashboard.NewSession(memory),
		Cache:       cache,
		HTTPClient:  httpClient,
		Logger:      logger,
	})
	srv := server.NewServer(api, a.cfg.Server.DevMode, logger)

	loadInitial(ctx, a, coord, httpClient)

	port, err := util.FindAvailablePort(a.cfg.Server.Port, 20)
	if err != nil {
		return err
	}
	if port != a.cfg.Server.Port {
		logger.Warn("port in use, falling back", zap.Int("configured", a.cfg.Server.Port), zap.Int("port", port))
	}
	addr := fmt.Sprintf(":%d", port)
	url := fmt.Sprintf("http://localhost:%d", port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, addr)
	})
	if a.cfg.Data.Watch && a.cfg.Source.DefaultFile != "" {
		w := importer.NewWatcher(coord, a.cfg.Source.DefaultFile, logger)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	if open {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warn("open browser failed", zap.String("url", url), zap.Error(err))
		}
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadInitial 启动时先恢复会话缓存，再尝试默认数据源；失败只记录状态不退出
func loadInitial(ctx context.Context, a *app, coord *importer.Coordinator, client *http.Client) {
	logger := a.logger

	// 显式指定的文件优先于缓存
	if a.cfg.Source.DefaultFile == "" {
		if report, err := coord.Restore(ctx); err == nil {
			logger.Info("session restored", zap.String("file", report.FileName), zap.Int("projects", report.Projects))
			return
		} else if !errors.Is(err, store.ErrNoSnapshot) {
			logger.Warn("restore session failed", zap.Error(err))
		}
	}

	src, err := defaultSource(ctx, a.cfg, client)
	if err != nil {
		logger.Warn("default source unavailable", zap.Error(err))
		return
	}
	if src == nil {
		logger.Info("no default source configured; waiting for upload")
		return
	}
	if _, err := coord.Load(ctx, src); err != nil {
		logger.Warn("default dataset not loaded", zap.String("source", src.Describe()), zap.Error(err))
	}
}

// defaultSource 按 文件 → URL → Google Sheets 的顺序选择默认数据源
func defaultSource(ctx context.Context, cfg *config.AppConfig, client *http.Client) (importer.Source, error) {
	switch {
	case cfg.Source.DefaultFile != "":
		return importer.FileSource{Path: cfg.Source.DefaultFile}, nil
	case cfg.Source.DefaultURL != "":
		return importer.URLSource{URL: cfg.Source.DefaultURL, Client: client}, nil
	case cfg.Source.SpreadsheetID != "":
		c, err := sheets.NewClient(ctx, cfg.Source.SpreadsheetID, cfg.Source.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return importer.SheetSource{Client: c, Range: cfg.Source.SheetRange}, nil
	}
	return nil, nil
}
