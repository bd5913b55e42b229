package common

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("QC_RESULTS_DSN", "file:results.db")
	t.Setenv("QC_DB_MAX_CONNS", "8")
	t.Setenv("QC_DB_DIAL_TIMEOUT", "750ms")
	t.Setenv("QC_OUTPUT_XLSX", "out.xlsx")
	t.Setenv("QC_LOG_LEVEL", "debug")

	cfg := LoadConfig()
	if cfg.Database.DSN != "file:results.db" || cfg.Database.MaxConns != 8 {
		t.Errorf("database config = %+v", cfg.Database)
	}
	if cfg.Database.DialTimeout != 750*time.Millisecond {
		t.Errorf("dial timeout = %v", cfg.Database.DialTimeout)
	}
	if cfg.Output.JSONPath != "results.json" || cfg.Output.XLSXPath != "out.xlsx" {
		t.Errorf("output config = %+v", cfg.Output)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.Log.SlogLevel())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Log.Format = "xml"
	cfg.Database.DSN = "file:x.db"
	cfg.Database.MaxConns = 1
	cfg.Database.MinConns = 2

	err := cfg.Validate()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate error = %v, want ErrValidation", err)
	}
	if CodeOf(err) != CodeConfig {
		t.Errorf("code = %q, want %q", CodeOf(err), CodeConfig)
	}
}
