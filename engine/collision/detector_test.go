package collision_test

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/rove-go/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func TestNewDetectorEmptyPointSet(t *testing.T) {
	g := NewGomegaWithT(t)

	_, err := collision.NewDetector(nil)
	g.Expect(err).To(MatchError(collision.ErrEmptyPointSet))

	_, err = collision.NewDetector([]mgl32.Vec3{})
	g.Expect(err).To(MatchError(collision.ErrEmptyPointSet))
}

func TestNewDetectorInvalidConfig(t *testing.T) {
	g := NewGomegaWithT(t)

	points := []mgl32.Vec3{{0, 0, 0}}

	_, err := collision.NewDetector(points, collision.WithProbeRadius(0))
	g.Expect(err).To(MatchError(collision.ErrInvalidProbeRadius))

	_, err = collision.NewDetector(points, collision.WithDensityThreshold(-1))
	g.Expect(err).To(MatchError(collision.ErrInvalidThreshold))
}

func TestDetectorDefaults(t *testing.T) {
	g := NewGomegaWithT(t)

	points := []mgl32.Vec3{{1, 2, 3}}
	det, err := collision.NewDetector(points)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(det.ProbeRadius()).To(Equal(collision.DefaultProbeRadius))
	g.Expect(det.DensityThreshold()).To(Equal(collision.DefaultDensityThreshold))
	// ceil(1000 * 0.05)
	g.Expect(det.MaxContacts()).To(Equal(50))
	g.Expect(det.PointCount()).To(Equal(1))
}

func TestProbeDenseCluster(t *testing.T) {
	g := NewGomegaWithT(t)

	// 60 coincident points exceed the 50-contact cap at default tuning.
	center := mgl32.Vec3{1, 2, 3}
	points := make([]mgl32.Vec3, 60)
	for i := range points {
		points[i] = center
	}

	det, err := collision.NewDetector(points)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(det.Probe(center)).To(BeTrue())
	g.Expect(det.Probe(mgl32.Vec3{10, 10, 10})).To(BeFalse())
}

func TestProbeSparsePointBelowThreshold(t *testing.T) {
	g := NewGomegaWithT(t)

	// A single contact gives density 1/0.05 = 20, far below the default
	// threshold of 1000: sparse geometry must not block the camera.
	points := []mgl32.Vec3{{0, 0, 0}}
	det, err := collision.NewDetector(points)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(det.Probe(mgl32.Vec3{0, 0, 0})).To(BeFalse())
}

func TestProbeDensityBoundary(t *testing.T) {
	g := NewGomegaWithT(t)

	// threshold 20 at radius 0.05 caps contacts at ceil(1) = 1, so a single
	// point inside the sphere is exactly enough: 1/0.05 >= 20.
	points := []mgl32.Vec3{{0.06, 0, 0}}
	det, err := collision.NewDetector(points,
		collision.WithProbeRadius(0.05),
		collision.WithDensityThreshold(20),
	)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(det.MaxContacts()).To(Equal(1))

	// Probe center sits in the cell adjacent to the point's cell; the point
	// is 0.04 away, inside the probe sphere.
	g.Expect(det.Probe(mgl32.Vec3{0.02, 0, 0})).To(BeTrue())

	// 0.14 away: outside the sphere and outside the cell neighborhood.
	g.Expect(det.Probe(mgl32.Vec3{0.2, 0, 0})).To(BeFalse())
}

func TestParallelBuildMatchesSerial(t *testing.T) {
	g := NewGomegaWithT(t)

	r := rand.New(rand.NewSource(7))
	points := make([]mgl32.Vec3, 0, 50060)
	for i := 0; i < 50000; i++ {
		points = append(points, mgl32.Vec3{
			r.Float32()*2 - 1,
			r.Float32()*2 - 1,
			r.Float32()*2 - 1,
		})
	}
	// Dense cluster guaranteed to collide at default tuning.
	clusterCenter := mgl32.Vec3{0.5, 0.5, 0.5}
	for i := 0; i < 60; i++ {
		points = append(points, clusterCenter)
	}

	parallel, err := collision.NewDetector(points, collision.WithBuildWorkers(4))
	g.Expect(err).NotTo(HaveOccurred())
	serial, err := collision.NewDetector(points, collision.WithBuildWorkers(1))
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(parallel.Probe(clusterCenter)).To(BeTrue())
	g.Expect(serial.Probe(clusterCenter)).To(BeTrue())

	for i := 0; i < 20; i++ {
		p := mgl32.Vec3{
			r.Float32()*2 - 1,
			r.Float32()*2 - 1,
			r.Float32()*2 - 1,
		}
		g.Expect(parallel.Probe(p)).To(Equal(serial.Probe(p)))
	}
}
