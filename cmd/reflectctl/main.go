// Command reflectctl validates reflect tags in a game database, resolves
// reflect chances for ad-hoc battlers and imports tags into PostgreSQL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/udisondev/actreflect/internal/config"
	"github.com/udisondev/actreflect/internal/data"
)

const ConfigPath = "config/actreflect.yaml"

var (
	configPath string
	dataDir    string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "reflectctl",
	Short:         "Action reflect tag tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})))
		return nil
	},
}

func init() {
	defaultConfig := ConfigPath
	if p := os.Getenv("ACTREFLECT_CONFIG"); p != "" {
		defaultConfig = p
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "database directory (overrides data_dir)")

	rootCmd.AddCommand(validateCmd, resolveCmd, importCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// loadDatabase loads the database and reports tag issues.
// In strict mode any issue fails the load.
func loadDatabase(ctx context.Context) (*data.Database, error) {
	db, err := data.Load(ctx, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	issues := db.Validate()
	for _, is := range issues {
		slog.Warn("invalid reflect tag", "source", is.Source, "kind", is.Kind, "tag", is.Tag)
	}
	if cfg.StrictTags && len(issues) > 0 {
		return nil, fmt.Errorf("%d invalid reflect tags (strict_tags enabled)", len(issues))
	}

	slog.Info("database ready", "fingerprint", db.Fingerprint(), "issues", len(issues))
	return db, nil
}
