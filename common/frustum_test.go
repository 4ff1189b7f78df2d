package common_test

import (
	"testing"

	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func TestExtractFrustumNormalizesPlanes(t *testing.T) {
	g := NewGomegaWithT(t)

	vp := mgl32.Perspective(math32.Pi/2, 1.0, 1.0, 100.0)
	f := common.ExtractFrustumFromMatrix(vp)

	for i := range f.Planes {
		g.Expect(f.Planes[i].Normal.Len()).To(BeNumerically("~", 1.0, 1e-5))
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	g := NewGomegaWithT(t)

	// 90° vertical fov at aspect 1 puts the side planes at 45°: the frustum
	// spans x,y in ±|z|.
	vp := mgl32.Perspective(math32.Pi/2, 1.0, 1.0, 100.0)
	f := common.ExtractFrustumFromMatrix(vp)

	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, -50})).To(BeTrue())
	g.Expect(f.ContainsPoint(mgl32.Vec3{49, 0, -50})).To(BeTrue())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, -49, -50})).To(BeTrue())

	g.Expect(f.ContainsPoint(mgl32.Vec3{51, 0, -50})).To(BeFalse())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 51, -50})).To(BeFalse())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, -0.5})).To(BeFalse())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, -101})).To(BeFalse())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, 1})).To(BeFalse())
}

func TestFrustumIntersectsSphere(t *testing.T) {
	g := NewGomegaWithT(t)

	vp := mgl32.Perspective(math32.Pi/2, 1.0, 1.0, 100.0)
	f := common.ExtractFrustumFromMatrix(vp)

	// Fully inside.
	g.Expect(f.IntersectsSphere(mgl32.Vec3{0, 0, -50}, 1)).To(BeTrue())

	// Center 20 units beyond the far plane: a radius 25 sphere still reaches
	// in, a radius 15 sphere does not.
	g.Expect(f.IntersectsSphere(mgl32.Vec3{0, 0, -120}, 25)).To(BeTrue())
	g.Expect(f.IntersectsSphere(mgl32.Vec3{0, 0, -120}, 15)).To(BeFalse())
}

func TestExtractFrustumFollowsViewTranslation(t *testing.T) {
	g := NewGomegaWithT(t)

	// Camera at (0, 0, 10) looking down -Z: the view matrix is the inverse
	// of the camera pose.
	proj := mgl32.Perspective(math32.Pi/2, 1.0, 1.0, 100.0)
	view := mgl32.Translate3D(0, 0, -10)
	f := common.ExtractFrustumFromMatrix(proj.Mul4(view))

	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, 0})).To(BeTrue())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, -80})).To(BeTrue())
	// Inside the near gap between the camera and the near plane.
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, 9.5})).To(BeFalse())
	g.Expect(f.ContainsPoint(mgl32.Vec3{0, 0, 15})).To(BeFalse())
}
