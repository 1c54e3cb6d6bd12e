package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gpuhunt/internal/catalog"
	"gpuhunt/internal/config"
	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
	"gpuhunt/internal/providers"
)

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpuhunt.yaml")

	content := "output:\n  format: json\n  filter: true\nlogging:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := loadConfig(&options{configPath: path, format: "TABLE", noFilter: true})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Output.Format != "table" {
		t.Errorf("Expected format table, got %s", cfg.Output.Format)
	}

	if cfg.Output.Filter {
		t.Error("Expected --no-filter to disable filtering")
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level from file, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	_, err := loadConfig(&options{format: "xml"})
	if !errors.Is(err, config.ErrInvalidOutputFormat) {
		t.Errorf("Expected ErrInvalidOutputFormat, got %v", err)
	}
}

func TestBuildProviders(t *testing.T) {
	cfg := config.Default()
	deps := providers.Deps{Config: cfg, Logger: logger.Discard(), Getenv: func(string) string { return "" }}

	_, err := buildProviders(context.Background(), cfg, deps, logger.Discard(), "nosuch")
	if !errors.Is(err, providers.ErrUnknownProvider) {
		t.Errorf("Expected ErrUnknownProvider, got %v", err)
	}

	_, err = buildProviders(context.Background(), cfg, deps, logger.Discard(), "seeweb")
	if !errors.Is(err, providers.ErrMissingCredential) {
		t.Errorf("Expected ErrMissingCredential, got %v", err)
	}

	// Without a completion key only the direct-API defaults start.
	list, err := buildProviders(context.Background(), cfg, deps, logger.Discard(), "all")
	if err != nil {
		t.Fatalf("buildProviders(all) failed: %v", err)
	}

	var names []string
	for _, p := range list {
		names = append(names, p.Name())
	}

	if got := strings.Join(names, ","); got != "latitude,leadergpu" {
		t.Errorf("Expected latitude,leadergpu, got %s", got)
	}

	disabled := false
	cfg.Providers["latitude"] = config.ProviderConfig{Enabled: &disabled}

	list, err = buildProviders(context.Background(), cfg, deps, logger.Discard(), "ALL")
	if err != nil {
		t.Fatalf("buildProviders(ALL) failed: %v", err)
	}

	if len(list) != 1 || list[0].Name() != "leadergpu" {
		t.Errorf("Expected only leadergpu, got %d providers", len(list))
	}
}

func TestWriteOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.csv")
	entries := []catalog.Entry{{
		Provider: "leadergpu",
		Offer:    models.Offer{InstanceName: "A100-8x", Location: "EU", Price: 7.3334},
	}}

	if err := writeOutput(path, catalog.FormatCSV, entries); err != nil {
		t.Fatalf("writeOutput failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if !strings.Contains(string(data), "leadergpu,A100-8x,EU,7.3334") {
		t.Errorf("Unexpected output:\n%s", data)
	}
}

func TestProvidersCommand(t *testing.T) {
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"providers"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.Contains(out.String(), "leadergpu (default)") || !strings.Contains(out.String(), "aws\n") {
		t.Errorf("Unexpected providers output:\n%s", out.String())
	}
}
