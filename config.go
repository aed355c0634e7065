package docdiff

import (
	"fmt"

	"docdiff/internal/constants"
	"docdiff/textdiff"
)

// Config holds the engine configuration. The zero value is not usable
// directly; start from DefaultConfig and override what you need.
type Config struct {
	// Normalization controls how text becomes comparison tokens.
	Normalization textdiff.Policy

	// ContextSize is the number of unchanged tokens reported around each
	// change.
	ContextSize int

	// RowSimilarityThreshold is the minimum similarity for table rows and
	// text blocks to pair as matched-but-modified.
	RowSimilarityThreshold float64

	// ImageSimilarityThreshold is the Hamming-distance cutoff for image
	// matching, as a fraction of the fingerprint bit width.
	ImageSimilarityThreshold float64

	// Parallelism bounds concurrent page workers.
	Parallelism int

	// HighlightEnabled projects change regions onto merged pages.
	HighlightEnabled bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Normalization:            textdiff.DefaultPolicy(),
		ContextSize:              constants.DefaultContextSize,
		RowSimilarityThreshold:   constants.DefaultRowSimilarityThreshold,
		ImageSimilarityThreshold: constants.DefaultImageSimilarityThreshold,
		Parallelism:              constants.DefaultParallelism,
	}
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	if c.RowSimilarityThreshold < 0 || c.RowSimilarityThreshold > 1 {
		return fmt.Errorf("row similarity threshold %v out of range [0,1]", c.RowSimilarityThreshold)
	}
	if c.ImageSimilarityThreshold < 0 || c.ImageSimilarityThreshold > 1 {
		return fmt.Errorf("image similarity threshold %v out of range [0,1]", c.ImageSimilarityThreshold)
	}
	if c.ContextSize < 0 {
		return fmt.Errorf("context size %d must not be negative", c.ContextSize)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism %d must be at least 1", c.Parallelism)
	}
	return nil
}
