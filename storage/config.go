package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"circle-route/booth"
	"circle-route/route"

	"github.com/tidwall/jsonc"
)

// Config is config.json. It is JSONC: comments and trailing commas are
// allowed. Missing fields keep their defaults.
type Config struct {
	DefaultStart   string   `json:"default_start"`
	RowWeight      int      `json:"row_weight"`
	FoldThreshold  int      `json:"fold_threshold"`
	FoldLength     int      `json:"fold_length"`
	Sentinel       int      `json:"sentinel"`
	HallPenalty    int      `json:"hall_penalty"`
	TwoOpt         bool     `json:"two_opt"`
	TwoOptLimit    int      `json:"two_opt_limit"`
	HighPriority   []string `json:"high_priority"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	Lookahead      int      `json:"lookahead"`
}

func DefaultConfig() Config {
	return Config{
		RowWeight:      route.DefaultRowWeight,
		FoldThreshold:  route.DefaultFoldThreshold,
		FoldLength:     route.DefaultFoldLength,
		Sentinel:       route.DefaultSentinel,
		HallPenalty:    route.DefaultHallPenalty,
		TwoOpt:         true,
		TwoOptLimit:    route.DefaultTwoOptLimit,
		HighPriority:   append([]string(nil), route.DefaultHighPriority...),
		TimeoutSeconds: 15,
		Lookahead:      2,
	}
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DefaultStart = strings.TrimSpace(cfg.DefaultStart)
	if cfg.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("timeout_seconds must be positive")
	}
	if cfg.Lookahead < 0 {
		return Config{}, fmt.Errorf("lookahead must not be negative")
	}
	return cfg, nil
}

// LoadConfig reads config.json, falling back to defaults when it is missing.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, ok, err := readOptional(path, "config")
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// CostModel applies the configured weights to layout.
func (c Config) CostModel(layout booth.Layout) (route.CostModel, error) {
	model := route.NewCostModel(layout)
	model.RowWeight = c.RowWeight
	model.FoldThreshold = c.FoldThreshold
	model.FoldLength = c.FoldLength
	model.Sentinel = c.Sentinel
	model.HallPenalty = c.HallPenalty
	if err := model.Validate(); err != nil {
		return route.CostModel{}, err
	}
	return model, nil
}

func (c Config) SolverOptions() route.Options {
	return route.Options{
		HighPriority: c.HighPriority,
		TwoOpt:       c.TwoOpt,
		TwoOptLimit:  c.TwoOptLimit,
	}
}
