package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/dhruvparekh01/abalone/internal/heuristic"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	AiTimeBudgetMs    int    `json:"ai_time_budget_ms"`
	AiSafetyMarginMs  int    `json:"ai_safety_margin_ms"`
	AiMaxDepth        int    `json:"ai_max_depth"`
	AiOrderMinimizing bool   `json:"ai_order_minimizing"`
	AiHeuristic       string `json:"ai_heuristic"`
	AiLogSearchStats  bool   `json:"ai_log_search_stats"`
	AiRandomOpening   bool   `json:"ai_random_opening"`
	SearchProgress    bool   `json:"search_progress"`
	MoveLimit         int    `json:"move_limit"`
	ListenAddr        string `json:"listen_addr"`
}

type Store struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiTimeBudgetMs:   10000,
		AiSafetyMarginMs: 5,
		AiMaxDepth:       64,
		// Minimizing replies are searched in generation order unless set.
		AiOrderMinimizing: false,
		AiHeuristic:       heuristic.DefaultName,
		AiLogSearchStats:  true,
		AiRandomOpening:   true,
		SearchProgress:    true,
		MoveLimit:         40,
		ListenAddr:        ":8080",
	}
}

// Load overlays the JSON file at path on the defaults. An empty path gives
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.AiTimeBudgetMs <= 0:
		return errors.Wrapf(ErrInvalidConfig, "ai_time_budget_ms must be positive, got %d", c.AiTimeBudgetMs)
	case c.AiSafetyMarginMs < 0:
		return errors.Wrapf(ErrInvalidConfig, "ai_safety_margin_ms must not be negative, got %d", c.AiSafetyMarginMs)
	case c.AiMaxDepth <= 0:
		return errors.Wrapf(ErrInvalidConfig, "ai_max_depth must be positive, got %d", c.AiMaxDepth)
	case c.MoveLimit <= 0:
		return errors.Wrapf(ErrInvalidConfig, "move_limit must be positive, got %d", c.MoveLimit)
	}
	if _, err := heuristic.Lookup(c.AiHeuristic); err != nil {
		return errors.WithMessage(err, "ai_heuristic")
	}
	return nil
}

func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.AiTimeBudgetMs) * time.Millisecond
}

func (c Config) SafetyMargin() time.Duration {
	return time.Duration(c.AiSafetyMarginMs) * time.Millisecond
}

var store = &Store{config: DefaultConfig()}

func Get() Config {
	return store.Get()
}

// Set replaces the process-wide config.
func Set(cfg Config) {
	store.Update(cfg)
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Store) Update(cfg Config) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}
