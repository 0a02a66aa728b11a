package pipeline

import (
	"errors"
	"fmt"

	"alertscope/sequence"
	"alertscope/summary"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned by New when the run configuration is unusable
var ErrInvalidConfig = errors.New("invalid pipeline configuration")

// PatternSource selects which event attribute feeds the cyclic detector
type PatternSource string

const (
	// SourceSignature scans raw signatures (default)
	SourceSignature PatternSource = "signature"
	// SourceMainCategory scans main categories
	SourceMainCategory PatternSource = "main_category"
	// SourceDetailedCategory scans detailed categories
	SourceDetailedCategory PatternSource = "detailed_category"
)

// String returns the string representation
func (s PatternSource) String() string {
	return string(s)
}

// IsValid checks if the source is known
func (s PatternSource) IsValid() bool {
	switch s {
	case SourceSignature, SourceMainCategory, SourceDetailedCategory:
		return true
	default:
		return false
	}
}

// Config is the explicit configuration of an analysis pipeline. It is copied
// into the pipeline at construction; later changes have no effect.
type Config struct {
	// WindowLengths are the cyclic pattern window lengths (default 3, 5, 8)
	WindowLengths []int `json:"window_lengths" yaml:"window_lengths" validate:"dive,gt=0"`
	// PatternSource selects the detector tokens (default signature)
	PatternSource PatternSource `json:"pattern_source" yaml:"pattern_source" validate:"required,oneof=signature main_category detailed_category"`
	// TopN bounds the signature and detailed-category rankings (default 10)
	TopN int `json:"top_n" yaml:"top_n" validate:"gte=1,lte=10000"`
	// CacheSize is the classification LRU size (default 4096)
	CacheSize int `json:"cache_size" yaml:"cache_size" validate:"gte=0"`
	// DisableCache classifies every event against the taxonomy directly
	DisableCache bool `json:"disable_cache" yaml:"disable_cache"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		WindowLengths: append([]int(nil), sequence.DefaultWindowLengths...),
		PatternSource: SourceSignature,
		TopN:          summary.DefaultTopN,
	}
}

// withDefaults fills zero values with defaults and copies slices
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WindowLengths == nil {
		c.WindowLengths = d.WindowLengths
	} else {
		c.WindowLengths = append([]int(nil), c.WindowLengths...)
	}
	if c.PatternSource == "" {
		c.PatternSource = d.PatternSource
	}
	if c.TopN == 0 {
		c.TopN = d.TopN
	}
	return c
}

var validate = validator.New()

// Validate checks the configuration after defaults are applied
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := sequence.ValidateLengths(c.WindowLengths); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
