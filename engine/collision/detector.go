package collision

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Configuration errors returned by NewDetector.
var (
	ErrEmptyPointSet      = errors.New("point set is empty")
	ErrInvalidProbeRadius = errors.New("probe radius must be positive")
	ErrInvalidThreshold   = errors.New("density threshold must be positive")
)

// Default probe tuning. These values are calibrated against metre-scale
// photogrammetry scans; scenes with a different point density should
// override them via the builder options or the viewer configuration.
const (
	DefaultProbeRadius      float32 = 0.05
	DefaultDensityThreshold float32 = 1000.0
)

// detector is the implementation of the Detector interface.
type detector struct {
	radius    float32
	threshold float32

	// maxContacts caps query enumeration at ceil(threshold * radius):
	// past that count the density decision is already determined.
	maxContacts int

	buildWorkers int

	grid *voxelGrid
}

// Detector answers whether a probe volume at a world-space position
// intersects the indexed scene geometry. The probe is a sphere of fixed
// radius; a position collides when the number of indexed points inside the
// sphere, divided by the radius, meets or exceeds the density threshold.
// This is a density heuristic rather than a solid intersection test, which
// makes it usable on sparse point clouds that carry no mesh faces.
//
// A Detector is built once from a point set and is immutable afterwards.
// It holds no per-query state and is safe to share across frames.
type Detector interface {
	// Probe reports whether the probe sphere at the given position meets the
	// configured contact density. Enumeration stops at MaxContacts, bounding
	// the query cost regardless of local point density.
	//
	// Parameters:
	//   - position: world-space probe center
	//
	// Returns:
	//   - bool: true if the position collides with the indexed geometry
	Probe(position mgl32.Vec3) bool

	// ProbeRadius returns the probe sphere radius.
	//
	// Returns:
	//   - float32: the radius in world units
	ProbeRadius() float32

	// DensityThreshold returns the contact density required for a collision.
	//
	// Returns:
	//   - float32: the threshold in contacts per world unit
	DensityThreshold() float32

	// MaxContacts returns the per-query contact enumeration cap,
	// ceil(DensityThreshold * ProbeRadius).
	//
	// Returns:
	//   - int: the contact cap
	MaxContacts() int

	// PointCount returns the number of indexed points.
	//
	// Returns:
	//   - int: the point count
	PointCount() int
}

var _ Detector = &detector{}

// NewDetector builds a Detector over the given point set.
// Construction indexes every point into a static voxel grid; the point set
// is captured by reference and must not be mutated afterwards.
//
// An empty point set is a fatal configuration error: an empty structure
// cannot be indexed and the resulting detector would be unusable, so the
// error is surfaced here rather than silently degrading every query.
//
// Parameters:
//   - points: world-space obstacle points (must be non-empty)
//   - options: functional options to configure the detector
//
// Returns:
//   - Detector: the constructed detector
//   - error: ErrEmptyPointSet, ErrInvalidProbeRadius, or ErrInvalidThreshold
func NewDetector(points []mgl32.Vec3, options ...DetectorBuilderOption) (Detector, error) {
	d := &detector{
		radius:       DefaultProbeRadius,
		threshold:    DefaultDensityThreshold,
		buildWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(d)
	}

	if len(points) == 0 {
		return nil, ErrEmptyPointSet
	}
	if d.radius <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProbeRadius, d.radius)
	}
	if d.threshold <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, d.threshold)
	}

	d.maxContacts = int(math32.Ceil(d.threshold * d.radius))
	d.grid = newVoxelGrid(points, d.radius, d.buildWorkers)
	return d, nil
}

func (d *detector) Probe(position mgl32.Vec3) bool {
	contacts := d.grid.contactsWithin(position, d.radius, d.maxContacts)
	return float32(contacts)/d.radius >= d.threshold
}

func (d *detector) ProbeRadius() float32 {
	return d.radius
}

func (d *detector) DensityThreshold() float32 {
	return d.threshold
}

func (d *detector) MaxContacts() int {
	return d.maxContacts
}

func (d *detector) PointCount() int {
	return len(d.grid.points)
}
