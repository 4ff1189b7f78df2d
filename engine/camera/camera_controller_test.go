package camera_test

import (
	"testing"

	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/Carmen-Shannon/rove-go/engine/camera"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

// probeFunc adapts a plain function to the CollisionProbe interface.
type probeFunc func(position mgl32.Vec3) bool

func (f probeFunc) Probe(position mgl32.Vec3) bool { return f(position) }

func TestDefaultBindings(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController()
	g.Expect(ctrl.Binding(camera.DirectionForward)).To(Equal(uint32(common.KeyW)))
	g.Expect(ctrl.Binding(camera.DirectionBack)).To(Equal(uint32(common.KeyS)))
	g.Expect(ctrl.Binding(camera.DirectionLeft)).To(Equal(uint32(common.KeyA)))
	g.Expect(ctrl.Binding(camera.DirectionRight)).To(Equal(uint32(common.KeyD)))
	g.Expect(ctrl.Binding(camera.DirectionUp)).To(Equal(uint32(common.KeySpace)))
	g.Expect(ctrl.Binding(camera.DirectionDown)).To(Equal(uint32(common.KeyLeftShift)))
}

func TestRegisterPressUnboundKey(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(camera.WithSpeed(2))
	g.Expect(ctrl.RegisterPress(common.KeyC)).To(BeFalse())
	g.Expect(ctrl.RegisterRelease(common.KeyC)).To(BeFalse())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))

	ctrl.Advance(1.0)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{}))
}

func TestRegisterPressRepeatKeepsVelocity(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(camera.WithSpeed(2))

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))

	// OS key repeat delivers further presses while held; only the first
	// transition contributes.
	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))

	g.Expect(ctrl.RegisterRelease(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))

	// Releasing an already-released bound key reports bound and changes nothing.
	g.Expect(ctrl.RegisterRelease(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))
}

func TestOpposingKeysCancel(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(camera.WithSpeed(2))

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.RegisterPress(common.KeyS)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))

	g.Expect(ctrl.RegisterRelease(common.KeyS)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))
}

func TestUnknownKeyNormalizesToDescendBinding(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(camera.WithSpeed(3))

	g.Expect(ctrl.RegisterPress(common.KeyUnknown)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, -3, 0}))

	// The unknown code aliases the real binding: a LeftShift press while the
	// unknown code is held is a repeat, not a second contribution.
	g.Expect(ctrl.RegisterPress(common.KeyLeftShift)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, -3, 0}))

	g.Expect(ctrl.RegisterRelease(common.KeyUnknown)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))
}

func TestAdvanceIntegratesHeldKeys(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(
		camera.WithSpeed(2),
		camera.WithViewportSize(800, 600),
	)

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))

	pose := ctrl.Advance(1.0)
	g.Expect(pose.Col(3).Vec3()).To(Equal(mgl32.Vec3{0, 0, -2}))
	g.Expect(pose.Mat3().ApproxEqualThreshold(mgl32.Ident3(), 1e-6)).To(BeTrue())
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -2}))

	// A second tick continues from the new position.
	ctrl.Advance(0.5)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -3}))
}

func TestAdvanceRotatesVelocityIntoWorldFrame(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(
		camera.WithSpeed(2),
		camera.WithViewportSize(800, 600),
	)

	// A quarter viewport from the left edge yields a quarter turn left.
	ctrl.SetPointer(200, 300)
	g.Expect(ctrl.Yaw()).To(BeNumerically("~", math32.Pi/2, 1e-5))
	g.Expect(ctrl.Pitch()).To(BeNumerically("~", 0, 1e-5))

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	ctrl.Advance(0.5)
	got := ctrl.Position()
	g.Expect(got.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5)).To(BeTrue())
}

func TestSetPointerPitchUnclamped(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(
		camera.WithSpeed(2),
		camera.WithViewportSize(800, 600),
	)

	// Top edge of the viewport looks straight up.
	ctrl.SetPointer(400, 0)
	g.Expect(ctrl.Pitch()).To(BeNumerically("~", math32.Pi/2, 1e-5))

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	ctrl.Advance(1.0)
	got := ctrl.Position()
	g.Expect(got.ApproxEqualThreshold(mgl32.Vec3{0, 2, 0}, 1e-5)).To(BeTrue())

	// Coordinates above the viewport push pitch past a quarter turn rather
	// than clamping at it.
	ctrl.SetPointer(400, -300)
	g.Expect(ctrl.Pitch()).To(BeNumerically("~", math32.Pi, 1e-5))
}

func TestAdvanceCollisionVeto(t *testing.T) {
	g := NewGomegaWithT(t)

	wall := probeFunc(func(position mgl32.Vec3) bool {
		return position.Z() < -1.5
	})
	ctrl := camera.NewCameraController(
		camera.WithSpeed(2),
		camera.WithCollisionProbe(wall),
	)

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())

	ctrl.Advance(0.5)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -1}))

	// The next step would land inside the wall; the position holds and the
	// key state is untouched.
	pose := ctrl.Advance(0.5)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -1}))
	g.Expect(pose.Col(3).Vec3()).To(Equal(mgl32.Vec3{0, 0, -1}))
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))

	// Detaching the probe unblocks movement.
	ctrl.SetProbe(nil)
	ctrl.Advance(0.5)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{0, 0, -2}))
}

func TestSetViewportSizeRescalesPointerMapping(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController()

	ctrl.SetViewportSize(1600, 1200)
	w, h := ctrl.ViewportSize()
	g.Expect(w).To(Equal(float32(1600)))
	g.Expect(h).To(Equal(float32(1200)))

	ctrl.SetPointer(800, 600)
	g.Expect(ctrl.Yaw()).To(BeNumerically("~", 0, 1e-5))
	g.Expect(ctrl.Pitch()).To(BeNumerically("~", 0, 1e-5))

	// Zero-sized framebuffers from minimized windows are ignored.
	ctrl.SetViewportSize(0, 900)
	w, h = ctrl.ViewportSize()
	g.Expect(w).To(Equal(float32(1600)))
	g.Expect(h).To(Equal(float32(1200)))
}

func TestWithInitialPoseSetsBaseOrientation(t *testing.T) {
	g := NewGomegaWithT(t)

	pose := mgl32.Rotate3DY(math32.Pi / 2).Mat4()
	pose.SetCol(3, mgl32.Vec4{1, 2, 3, 1})

	ctrl := camera.NewCameraController(
		camera.WithSpeed(5),
		camera.WithInitialPose(pose),
	)
	g.Expect(ctrl.Position()).To(Equal(mgl32.Vec3{1, 2, 3}))

	// The base forward -Z rotated a quarter turn about Y points down -X.
	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	ctrl.Advance(1.0)
	got := ctrl.Position()
	g.Expect(got.ApproxEqualThreshold(mgl32.Vec3{-4, 2, 3}, 1e-5)).To(BeTrue())
}

func TestSetSpeedRescalesHeldKeys(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(camera.WithSpeed(5))

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -5}))

	ctrl.SetSpeed(2)
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))

	g.Expect(ctrl.RegisterRelease(common.KeyW)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))
}

func TestWithBindingRebindsDirection(t *testing.T) {
	g := NewGomegaWithT(t)

	ctrl := camera.NewCameraController(
		camera.WithSpeed(2),
		camera.WithBinding(camera.DirectionForward, common.KeyR),
	)

	g.Expect(ctrl.RegisterPress(common.KeyW)).To(BeFalse())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{}))

	g.Expect(ctrl.RegisterPress(common.KeyR)).To(BeTrue())
	g.Expect(ctrl.Velocity()).To(Equal(mgl32.Vec3{0, 0, -2}))
}

func TestNewCameraControllerPanicsOnInvalidConfig(t *testing.T) {
	g := NewGomegaWithT(t)

	g.Expect(func() { camera.NewCameraController(camera.WithSpeed(-1)) }).To(Panic())
	g.Expect(func() { camera.NewCameraController(camera.WithViewportSize(0, 600)) }).To(Panic())
}
