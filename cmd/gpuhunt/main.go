// Package main provides the gpuhunt command that collects GPU offers from
// cloud providers into one normalized table.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gpuhunt/internal/catalog"
	"gpuhunt/internal/config"
	"gpuhunt/internal/logger"
	"gpuhunt/internal/providers"
)

// allProviders selects the default catalog.
const allProviders = "all"

type options struct {
	configPath string
	output     string
	format     string
	logLevel   string
	noFilter   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "gpuhunt <provider|all>",
		Short: "Collect GPU instance offers from cloud providers",
		Long: `gpuhunt fetches GPU instance pricing from one provider, or from every
default provider with "all", and writes the normalized offers as csv, json
or an aligned table. Prices are USD per hour.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return append(providers.Names(), allProviders), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0])
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: csv, json or table (default from config)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")
	flags.BoolVar(&opts.noFilter, "no-filter", false, "keep offers without a price")

	rootCmd.AddCommand(newProvidersCmd())

	return rootCmd
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaults := make(map[string]bool, len(providers.DefaultCatalog))
			for _, name := range providers.DefaultCatalog {
				defaults[name] = true
			}

			for _, name := range providers.Names() {
				marker := ""
				if defaults[name] {
					marker = " (default)"
				}

				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if opts.format != "" {
		cfg.Output.Format = strings.ToLower(opts.format)
	}

	if opts.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(opts.logLevel)
	}

	if opts.noFilter {
		cfg.Output.Filter = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(ctx context.Context, opts *options, target string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr).
		With("run_id", uuid.NewString())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := providers.Deps{Config: cfg, Logger: log}

	list, err := buildProviders(ctx, cfg, deps, log, target)
	if err != nil {
		return err
	}

	log.Info("starting collection", "target", target, "providers", len(list), "filter", cfg.Output.Filter)

	start := time.Now()
	entries := catalog.NewCollector(log, cfg.Output.Filter).Collect(ctx, list)

	log.Info("collected offers", "offers", len(entries), "duration", time.Since(start).String())

	return writeOutput(opts.output, cfg.Output.Format, entries)
}

// buildProviders constructs the target provider, or every enabled default
// provider for "all". A single named provider fails on missing credentials;
// under "all" such providers are skipped.
func buildProviders(ctx context.Context, cfg *config.Config, deps providers.Deps, log *logger.Logger, target string) ([]providers.Provider, error) {
	if !strings.EqualFold(target, allProviders) {
		p, err := providers.New(ctx, target, deps)
		if err != nil {
			return nil, err
		}

		return []providers.Provider{p}, nil
	}

	defaults := make(map[string]bool, len(providers.DefaultCatalog))
	for _, name := range providers.DefaultCatalog {
		defaults[name] = true
	}

	var list []providers.Provider

	for _, name := range providers.Names() {
		if !cfg.ProviderEnabled(name, defaults[name]) {
			continue
		}

		p, err := providers.New(ctx, name, deps)
		if err != nil {
			log.Warn("skipping provider", "provider", name, "error", err)

			continue
		}

		list = append(list, p)
	}

	if len(list) == 0 {
		return nil, errors.New("no provider could be started")
	}

	return list, nil
}

func writeOutput(path, format string, entries []catalog.Entry) (err error) {
	var w io.Writer = os.Stdout

	if path != "-" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}

		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()

		w = f
	}

	return catalog.Write(w, format, entries)
}
