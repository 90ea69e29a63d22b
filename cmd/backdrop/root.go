package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/pages"
)

// Environment variables read as flag defaults. They may also be set in a
// .env file in the working directory.
const (
	envLogLevel = "BACKDROP_LOG_LEVEL"
	envCatalog  = "BACKDROP_CATALOG"
)

type rootOptions struct {
	logLevel string
	catalog  string
}

func newRootCmd() *cobra.Command {
	loadEnv()

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "backdrop",
		Short:         "Render particle-field page backgrounds",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr(envLogLevel, "warn"), "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.catalog, "catalog", os.Getenv(envCatalog), "page catalog TOML file (default: built-in)")

	cmd.AddCommand(
		newPagesCmd(opts),
		newSnapshotCmd(opts),
		newHeadlessCmd(opts),
		newWindowCmd(opts),
		newTermCmd(opts),
		newShaderCmd(),
	)
	return cmd
}

// loadEnv loads .env if present. Variables already set win.
func loadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "backdrop: .env: %v\n", err)
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func setupLogging(cmd *cobra.Command, level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: l}))
	backdrop.SetLogger(logger)
	return nil
}

func (o *rootOptions) loadCatalog() (*pages.Catalog, error) {
	if o.catalog == "" {
		return pages.Default(), nil
	}
	return pages.LoadFile(o.catalog)
}
