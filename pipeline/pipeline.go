// Package pipeline runs one analysis over a finished batch of events:
// classification, temporal aggregation, cyclic pattern detection and the
// summary reduction. A Pipeline holds no per-run state, so one instance can
// serve many runs, including concurrent ones.
package pipeline

import (
	"fmt"
	"strconv"
	"time"

	"alertscope/core"
	"alertscope/metrics"
	"alertscope/sequence"
	"alertscope/summary"
	"alertscope/temporal"
	"alertscope/threat"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline binds a configuration and a taxonomy
type Pipeline struct {
	cfg      Config
	taxonomy *threat.Taxonomy
	logger   *zap.SugaredLogger
}

// New creates a pipeline with the default taxonomy
func New(cfg Config, logger *zap.SugaredLogger) (*Pipeline, error) {
	return NewWithTaxonomy(cfg, threat.DefaultTaxonomy(), logger)
}

// NewWithTaxonomy creates a pipeline classifying with the given taxonomy.
// A nil logger disables logging.
func NewWithTaxonomy(cfg Config, tax *threat.Taxonomy, logger *zap.SugaredLogger) (*Pipeline, error) {
	if tax == nil {
		return nil, fmt.Errorf("%w: taxonomy cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		taxonomy: tax,
		logger:   logger,
	}, nil
}

// classifier returns the classifier for one run. The LRU is built per run
// so cache contents and counters never carry over between runs.
func (p *Pipeline) classifier() (threat.Classifier, error) {
	if p.cfg.DisableCache {
		return p.taxonomy, nil
	}
	cached, err := threat.NewCachedClassifier(p.taxonomy, p.cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	return cached, nil
}

// Config returns a copy of the effective configuration
func (p *Pipeline) Config() Config {
	return p.cfg.withDefaults()
}

// Taxonomy returns the taxonomy used for classification
func (p *Pipeline) Taxonomy() *threat.Taxonomy {
	return p.taxonomy
}

// Result is the read-only outcome of one run
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Config    Config

	Events   []core.AnnotatedEvent
	Temporal *temporal.Aggregates
	Patterns []sequence.Result[string]
	Summary  *summary.Summary
}

// Run analyzes events in ingestion order. The events slice is not modified.
// Empty input is not an error: the result carries empty aggregates and an
// unavailable summary.
func (p *Pipeline) Run(events []core.Event) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)

	log.Debugw("Analysis run started",
		"events", len(events),
		"window_lengths", p.cfg.WindowLengths,
		"pattern_source", p.cfg.PatternSource.String())

	classifier, err := p.classifier()
	if err != nil {
		metrics.AnalysisRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	annotated := threat.Annotate(classifier, events)
	agg := temporal.Aggregate(annotated)

	patterns, err := sequence.Detect(Tokens(annotated, p.cfg.PatternSource), p.cfg.WindowLengths)
	if err != nil {
		metrics.AnalysisRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("pattern detection failed: %w", err)
	}

	sum := summary.Reduce(annotated, agg, p.cfg.TopN)

	result := &Result{
		RunID:     runID,
		StartedAt: start,
		Config:    p.Config(),
		Events:    annotated,
		Temporal:  agg,
		Patterns:  patterns,
		Summary:   sum,
	}
	result.Duration = time.Since(start)

	p.record(result)

	if agg.Skipped > 0 {
		log.Warnw("Some timestamps could not be parsed",
			"invalid", agg.Skipped,
			"valid", agg.Valid)
	}
	if len(events) == 0 {
		log.Warn("No events to analyze")
	}
	if c, ok := classifier.(*threat.CachedClassifier); ok {
		stats := c.Stats()
		log.Debugw("Classification cache",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"size", stats.Size)
	}
	log.Infow("Analysis run completed",
		"events", len(events),
		"valid_timestamps", agg.Valid,
		"distinct_signatures", sum.DistinctSignatures,
		"patterns_found", result.PatternsFound(),
		"duration", result.Duration)

	return result, nil
}

// record updates the process-wide collectors for a finished run
func (p *Pipeline) record(r *Result) {
	metrics.AnalysisRuns.WithLabelValues("completed").Inc()
	metrics.RunDuration.Observe(r.Duration.Seconds())
	metrics.EventsIngested.WithLabelValues("valid").Add(float64(r.Temporal.Valid))
	metrics.EventsIngested.WithLabelValues("invalid").Add(float64(r.Temporal.Skipped))
	for _, c := range r.Summary.MainCategories {
		metrics.EventsClassified.WithLabelValues(c.Value).Add(float64(c.Count))
	}
	for _, pr := range r.Patterns {
		if pr.Found() {
			metrics.PatternsFound.WithLabelValues(strconv.Itoa(pr.WindowLength)).Inc()
		}
	}
}

// PatternsFound counts window lengths with a match
func (r *Result) PatternsFound() int {
	n := 0
	for _, pr := range r.Patterns {
		if pr.Found() {
			n++
		}
	}
	return n
}

// Tokens extracts the detector input from annotated events in order
func Tokens(events []core.AnnotatedEvent, source PatternSource) []string {
	out := make([]string, len(events))
	for i, e := range events {
		switch source {
		case SourceMainCategory:
			out[i] = e.MainCategory
		case SourceDetailedCategory:
			out[i] = e.DetailedCategory
		default:
			out[i] = e.Signature
		}
	}
	return out
}
