// Package main provides the CLI entrypoint for tuidiner.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidiner/internal/catalog"
	"github.com/verte-zerg/tuidiner/internal/config"
	"github.com/verte-zerg/tuidiner/internal/game"
	"github.com/verte-zerg/tuidiner/internal/model"
	"github.com/verte-zerg/tuidiner/internal/store"
)

const (
	defaultLogLevel     = "warn"
	defaultRecentWindow = 50
	defaultTrendWindow  = 5
)

var (
	gameCatalog  string
	gameDBPath   string
	gameDelay    time.Duration
	gameLogLevel string
	gameVerbose  bool
	playLevel    int

	statsRecent int
	statsColor  bool

	resetJournal bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuidiner",
		Short:         "Learn CSS selectors in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&gameCatalog, "catalog", "", "level catalog YAML file (default: built-in levels)")
	flags.StringVar(&gameDBPath, "db", "", "progress database path")
	flags.DurationVar(&gameDelay, "delay", game.DefaultAdvanceDelay, "pause before advancing after a correct answer")
	flags.StringVar(&gameLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.BoolVarP(&gameVerbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().IntVar(&playLevel, "level", 0, "start at this level (1-based, default: resume)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newNavCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

// resolveConfig applies flag > env > file > default precedence.
func resolveConfig(cmd *cobra.Command) (model.GameConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.GameConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.ParseEnv()
	if err != nil {
		return model.GameConfig{}, err
	}

	applyStringConfig(cmd, "catalog", &gameCatalog, fileCfg.Game.Catalog)
	applyStringConfig(cmd, "log-level", &gameLogLevel, fileCfg.Game.LogLevel)
	if fileCfg.Game.AdvanceDelay != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*fileCfg.Game.AdvanceDelay))
		if err != nil {
			return model.GameConfig{}, fmt.Errorf("invalid advance-delay in config: %w", err)
		}
		applyDurationConfig(cmd, "delay", &gameDelay, &d)
	}

	applyStringConfig(cmd, "catalog", &gameCatalog, nonEmpty(envCfg.Catalog))
	applyStringConfig(cmd, "db", &gameDBPath, nonEmpty(envCfg.DBPath))
	applyStringConfig(cmd, "log-level", &gameLogLevel, nonEmpty(envCfg.LogLevel))
	if envCfg.AdvanceDelay != 0 {
		applyDurationConfig(cmd, "delay", &gameDelay, &envCfg.AdvanceDelay)
	}

	cfg := model.GameConfig{
		CatalogPath:  gameCatalog,
		DBPath:       gameDBPath,
		AdvanceDelay: gameDelay,
		LogLevel:     gameLogLevel,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBPath()
	}
	if gameVerbose {
		cfg.LogLevel = "debug"
	}
	if err := validateConfig(cfg); err != nil {
		return model.GameConfig{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.GameConfig) error {
	if cfg.AdvanceDelay < 0 {
		return fmt.Errorf("--delay must be >= 0")
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "tuidiner", ReportTimestamp: true})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// app bundles what every command opens: config, logger, catalog and store.
type app struct {
	cfg     model.GameConfig
	logger  *log.Logger
	catalog *catalog.Catalog
	store   *store.Store
}

func openApp(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(logOut, cfg.LogLevel)
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load levels: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("opened", "db", cfg.DBPath, "levels", cat.Len())
	return &app{cfg: cfg, logger: logger, catalog: cat, store: st}, nil
}

func (a *app) close() {
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Error("failed to close db", "err", cerr)
	}
}

func (a *app) newSession(ctx context.Context, sched game.Scheduler, listeners ...game.Listener) (*game.Session, error) {
	all := append(game.Listeners{game.NewLogListener(a.logger)}, listeners...)
	return game.New(ctx, game.Options{
		Catalog:      a.catalog,
		KV:           a.store,
		Journal:      a.store,
		Scheduler:    sched,
		Listener:     all,
		Logger:       a.logger,
		AdvanceDelay: a.cfg.AdvanceDelay,
	})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuidiner configuration
# Uncomment a value to enable it. Environment variables (TUIDINER_*) override
# config values; CLI flags override both.

[game]
# catalog = ""             # Level catalog YAML file (default: built-in levels)
# advance-delay = %q     # Pause before the next level after a correct answer
# log-level = %q          # debug, info, warn or error
`,
		game.DefaultAdvanceDelay.String(),
		defaultLogLevel,
	)
}
