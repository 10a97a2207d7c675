package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// EngineConfig is loaded once at startup and passed to NewEngine. It is
// never mutated afterwards.
type EngineConfig struct {
	Weights         map[string]float64
	FlagOverrides   map[int]catalog.FlagOverride
	RiskThresholds  valueobject.RiskThresholds
	MatchThresholds valueobject.MatchThresholds
	TopN            int
	SourceTimeout   time.Duration
}

// DefaultEngineConfig returns the built-in engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RiskThresholds:  valueobject.DefaultRiskThresholds(),
		MatchThresholds: valueobject.DefaultMatchThresholds(),
		TopN:            5,
		SourceTimeout:   30 * time.Second,
	}
}

// Validate checks the non-catalog settings. Each failure is a *errs.ConfigurationError.
func (c EngineConfig) Validate() error {
	var problems []error
	if err := c.RiskThresholds.Validate(); err != nil {
		problems = append(problems, errs.NewConfigurationError("risk_thresholds", "%v", err))
	}
	if err := c.MatchThresholds.Validate(); err != nil {
		problems = append(problems, errs.NewConfigurationError("match_thresholds", "%v", err))
	}
	if c.TopN < 1 {
		problems = append(problems, errs.NewConfigurationError("top_n", "must be at least 1, got %d", c.TopN))
	}
	if c.SourceTimeout <= 0 {
		problems = append(problems, errs.NewConfigurationError("source_timeout", "must be positive, got %s", c.SourceTimeout))
	}
	return errors.Join(problems...)
}

// Engine wires the catalog and the domain services built on it.
type Engine struct {
	Catalog    *catalog.Catalog
	Structured *StructuredFlagEvaluator
	Narrative  *NarrativeFlagAdapter
	Aggregator *FlagAggregator
	Scorer     *RiskScorer
	Matcher    *PatternMatcher
	config     EngineConfig
}

// NewEngine validates cfg and builds the engine on the embedded catalog.
// Any error is fatal for the caller.
func NewEngine(cfg EngineConfig, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat, err := catalog.Default(catalog.Overrides{Weights: cfg.Weights, Flags: cfg.FlagOverrides})
	if err != nil {
		return nil, fmt.Errorf("failed to load flag catalog: %w", err)
	}
	return NewEngineWithCatalog(cat, cfg, logger)
}

// NewEngineWithCatalog builds the engine on an already validated catalog.
// Weight and flag overrides in cfg are ignored. A nil logger means slog.Default().
func NewEngineWithCatalog(cat *catalog.Catalog, cfg EngineConfig, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Catalog:    cat,
		Structured: NewStructuredFlagEvaluator(cat, logger),
		Narrative:  NewNarrativeFlagAdapter(cat, logger),
		Aggregator: NewFlagAggregator(cat, logger),
		Scorer:     NewRiskScorer(cat, cfg.RiskThresholds),
		Matcher:    NewPatternMatcher(cfg.MatchThresholds, cfg.TopN),
		config:     cfg,
	}, nil
}

// Config returns the settings the engine was built with.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Assess aggregates the two source outputs and scores the result.
func (e *Engine) Assess(structured, narrative model.SourceOutput) (Aggregation, model.RiskAssessment) {
	agg := e.Aggregator.Aggregate(structured, narrative)
	return agg, e.Scorer.Score(agg)
}
