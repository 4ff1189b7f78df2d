package scene_test

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/Carmen-Shannon/rove-go/engine/camera"
	"github.com/Carmen-Shannon/rove-go/engine/collision"
	"github.com/Carmen-Shannon/rove-go/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	g := NewGomegaWithT(t)

	g.Expect(func() {
		scene.NewScene("broken", nil)
	}).To(Panic())
}

func TestUpdateAdvancesCameraController(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(camera.WithSpeed(2.0))
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("walk", cam)

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	sc.Update(1.0)

	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -2}))
	// The view matrix is the inverse of the pose, so the camera's translation
	// shows up negated.
	g.Expect(cam.ViewMatrix().ApproxEqualThreshold(mgl32.Translate3D(0, 0, 2), 1e-5)).To(BeTrue())
}

func TestUpdateCullsCloudAgainstFrustum(t *testing.T) {
	g := NewGomegaWithT(t)

	cloud := &common.PointCloud{
		Name: "markers",
		Positions: []mgl32.Vec3{
			{0, 0, -5},   // straight ahead
			{0, 0, 5},    // behind the camera
			{0, 0, -200}, // beyond the far plane
			{100, 0, -5}, // far outside the side planes
		},
	}

	ctrl := camera.NewCameraController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("cull", cam, scene.WithCloud(cloud))

	sc.Update(0)

	g.Expect(sc.VisibleCount()).To(Equal(1))
	g.Expect(sc.VisibleIndices()).To(Equal([]uint32{0}))
}

func TestUpdateParallelCullMatchesReference(t *testing.T) {
	g := NewGomegaWithT(t)

	// Enough points to split across several cull tasks.
	rng := rand.New(rand.NewSource(11))
	positions := make([]mgl32.Vec3, 20000)
	for i := range positions {
		positions[i] = mgl32.Vec3{
			rng.Float32()*100 - 50,
			rng.Float32()*100 - 50,
			rng.Float32()*100 - 50,
		}
	}
	cloud := &common.PointCloud{Name: "random", Positions: positions}

	ctrl := camera.NewCameraController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("parallel", cam,
		scene.WithCloud(cloud),
		scene.WithCullWorkers(4),
	)

	sc.Update(0)

	frustum := cam.Frustum()
	var expected []uint32
	for i, p := range positions {
		if frustum.ContainsPoint(p) {
			expected = append(expected, uint32(i))
		}
	}

	g.Expect(expected).NotTo(BeEmpty())
	g.Expect(sc.VisibleCount()).To(Equal(len(expected)))
	g.Expect(sc.VisibleIndices()).To(Equal(expected))
}

func TestUpdateBlocksCameraAtDenseWall(t *testing.T) {
	g := NewGomegaWithT(t)

	// A tight cluster dense enough to trip the default contact threshold.
	wall := make([]mgl32.Vec3, 60)
	for i := range wall {
		wall[i] = mgl32.Vec3{0, 0, -3}
	}
	det, err := collision.NewDetector(wall, collision.WithBuildWorkers(1))
	g.Expect(err).NotTo(HaveOccurred())

	ctrl := camera.NewCameraController(camera.WithSpeed(1.0))
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("blocked", cam,
		scene.WithCloud(&common.PointCloud{Name: "wall", Positions: wall}),
		scene.WithDetector(det),
	)

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	sc.Update(1.0)
	sc.Update(1.0)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -2}))

	// The next step would land inside the wall, so the position holds while
	// the velocity stays live.
	sc.Update(1.0)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -2}))
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -1}))
}

func TestSetDetectorWiresControllerProbe(t *testing.T) {
	g := NewGomegaWithT(t)

	points := []mgl32.Vec3{{0, 0, 0}}
	det, err := collision.NewDetector(points)
	g.Expect(err).NotTo(HaveOccurred())

	ctrl := camera.NewCameraController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("wired", cam)
	g.Expect(ctrl.Probe()).To(BeNil())

	sc.SetDetector(det)
	g.Expect(ctrl.Probe()).NotTo(BeNil())
	g.Expect(sc.Detector()).To(BeIdenticalTo(det))

	sc.SetDetector(nil)
	g.Expect(ctrl.Probe()).To(BeNil())
	g.Expect(sc.Detector()).To(BeNil())
}

func TestCullingDisabledCountsEveryPoint(t *testing.T) {
	g := NewGomegaWithT(t)

	cloud := &common.PointCloud{
		Name: "behind",
		Positions: []mgl32.Vec3{
			{0, 0, 10},
			{0, 0, 20},
			{0, 0, 30},
		},
	}

	ctrl := camera.NewCameraController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("nocull", cam,
		scene.WithCloud(cloud),
		scene.WithCullingDisabled(true),
	)

	sc.Update(0)

	g.Expect(sc.VisibleCount()).To(Equal(3))
	g.Expect(sc.VisibleIndices()).To(BeNil())
}

func TestSetCloudResetsVisibility(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	sc := scene.NewScene("swap", cam)
	g.Expect(sc.VisibleCount()).To(Equal(0))

	cloud := &common.PointCloud{
		Name:      "pair",
		Positions: []mgl32.Vec3{{0, 0, -1}, {0, 0, -2}},
	}
	sc.SetCloud(cloud)
	g.Expect(sc.Cloud()).To(BeIdenticalTo(cloud))
	g.Expect(sc.VisibleCount()).To(Equal(2))

	sc.SetCloud(nil)
	g.Expect(sc.VisibleCount()).To(Equal(0))
	g.Expect(sc.VisibleIndices()).To(BeNil())
}
