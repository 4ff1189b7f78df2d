package collision

// DetectorBuilderOption is a functional option for configuring a Detector.
type DetectorBuilderOption func(*detector)

// WithProbeRadius sets the probe sphere radius.
// Must be positive; NewDetector rejects non-positive values.
//
// Parameters:
//   - radius: probe sphere radius in world units
//
// Returns:
//   - DetectorBuilderOption: functional option to set the probe radius
func WithProbeRadius(radius float32) DetectorBuilderOption {
	return func(d *detector) {
		d.radius = radius
	}
}

// WithDensityThreshold sets the contact density required for a collision.
// Must be positive; NewDetector rejects non-positive values.
//
// Parameters:
//   - threshold: density in contacts per world unit
//
// Returns:
//   - DetectorBuilderOption: functional option to set the density threshold
func WithDensityThreshold(threshold float32) DetectorBuilderOption {
	return func(d *detector) {
		d.threshold = threshold
	}
}

// WithBuildWorkers sets the number of workers used for the parallel grid
// build during construction. Defaults to NumCPU-1. Values below 1 force a
// serial build. Queries are unaffected.
//
// Parameters:
//   - workers: worker count for construction
//
// Returns:
//   - DetectorBuilderOption: functional option to set the build worker count
func WithBuildWorkers(workers int) DetectorBuilderOption {
	return func(d *detector) {
		d.buildWorkers = workers
	}
}
