package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"projectintel/internal/config"
	"projectintel/internal/importer"
	"projectintel/internal/logging"
	"projectintel/internal/model"
	"projectintel/internal/parser"
	"projectintel/internal/service/calculator"
	memstore "projectintel/internal/service/store"
)

var (
	configPath string
	logLevel   string
	logDev     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "projectintel",
		Short: "Project intelligence dashboard for stage-based project spreadsheets",
		Long: `projectintel reads a project tracking spreadsheet (CSV/TSV/XLSX),
derives per-project cards, stage timelines, hours utilization and staffing
runway, and serves them over an HTTP API or renders them in the terminal.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config.toml path (default: next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "console log output")

	rootCmd.AddCommand(
		newServeCmd(),
		newReportCmd(),
		newTUICmd(),
		newExportCmd(),
		newRunwayCmd(),
		newInitConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app 各子命令共享的运行环境
type app struct {
	cfg    *config.AppConfig
	info   config.LoadConfigInfo
	logger *zap.Logger
	engine *calculator.Engine
}

func setup() (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logDev {
		cfg.Log.Dev = true
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Dev)
	if err != nil {
		return nil, err
	}
	if info.Found {
		logger.Debug("config loaded", zap.String("path", info.Path))
	}

	schema := parser.DefaultSchema()
	if cfg.Schema.SynonymsFile != "" {
		schema, err = parser.LoadSchema(cfg.Schema.SynonymsFile)
		if err != nil {
			return nil, fmt.Errorf("load synonyms: %w", err)
		}
	}
	engine := calculator.NewEngine(
		calculator.WithSchema(schema),
		calculator.WithDueSoonDays(cfg.Business.DueSoonDays),
	)
	return &app{cfg: cfg, info: info, logger: logger, engine: engine}, nil
}

// workspace 单个文件加载后的内存数据
type workspace struct {
	ds     *model.Dataset
	memory *memstore.MemoryStore
	coord  *importer.Coordinator
}

// loadFile 把单个文件加载进新的内存数据集；命令行模式不使用会话缓存
func (a *app) loadFile(ctx context.Context, path string) (*workspace, error) {
	memory := memstore.NewMemoryStore()
	coord := importer.NewCoordinator(a.engine, memory, nil, a.logger)
	if _, err := coord.Load(ctx, importer.FileSource{Path: path}); err != nil {
		return nil, errors.New(importer.FailureMessage(err))
	}
	ds, err := memory.Dataset()
	if err != nil {
		return nil, err
	}
	return &workspace{ds: ds, memory: memory, coord: coord}, nil
}

func newInitConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
