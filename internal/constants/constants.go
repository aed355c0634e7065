package constants

// Default engine tunables. The thresholds are calibration defaults, not
// fixed constants; callers override them through the Config.
const (
	// DefaultRowSimilarityThreshold is the minimum similarity for a table
	// row (or text block) to count as matched-but-modified.
	DefaultRowSimilarityThreshold = 0.6

	// DefaultImageSimilarityThreshold is the maximum fingerprint Hamming
	// distance for an image match, as a fraction of the bit width.
	DefaultImageSimilarityThreshold = 0.1

	// DefaultContextSize is the number of unchanged tokens kept around a
	// change, like unified-diff context lines.
	DefaultContextSize = 3

	// DefaultParallelism bounds concurrent page workers.
	DefaultParallelism = 4
)
