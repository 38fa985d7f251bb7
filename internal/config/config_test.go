package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhruvparekh01/abalone/internal/heuristic"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	if cfg.TimeBudget() != 10*time.Second {
		t.Fatalf("expected a 10s budget, got %v", cfg.TimeBudget())
	}
	if cfg.SafetyMargin() != 5*time.Millisecond {
		t.Fatalf("expected a 5ms margin, got %v", cfg.SafetyMargin())
	}
	if cfg.MoveLimit != 40 {
		t.Fatalf("expected a 40 move limit, got %d", cfg.MoveLimit)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero budget", func(c *Config) { c.AiTimeBudgetMs = 0 }, ErrInvalidConfig},
		{"negative margin", func(c *Config) { c.AiSafetyMarginMs = -1 }, ErrInvalidConfig},
		{"zero depth", func(c *Config) { c.AiMaxDepth = 0 }, ErrInvalidConfig},
		{"zero move limit", func(c *Config) { c.MoveLimit = 0 }, ErrInvalidConfig},
		{"unknown evaluator", func(c *Config) { c.AiHeuristic = "nope" }, heuristic.ErrUnknownEvaluator},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"ai_time_budget_ms": 250, "ai_heuristic": "lines"}`), 0o644); err != nil {
		t.Fatalf("expected to write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected config to load: %v", err)
	}
	if cfg.AiTimeBudgetMs != 250 || cfg.AiHeuristic != "lines" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.MoveLimit != 40 || cfg.ListenAddr != ":8080" {
		t.Fatalf("expected untouched fields to keep defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected a missing file to fail")
	}
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"move_limit": -3}`), 0o644)
	if _, err := Load(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if cfg, err := Load(""); err != nil || cfg != DefaultConfig() {
		t.Fatalf("expected an empty path to give the defaults")
	}
}

func TestStoreUpdate(t *testing.T) {
	s := &Store{config: DefaultConfig()}
	cfg := s.Get()
	cfg.AiMaxDepth = 3
	s.Update(cfg)
	if s.Get().AiMaxDepth != 3 {
		t.Fatalf("expected update to be visible")
	}
}
