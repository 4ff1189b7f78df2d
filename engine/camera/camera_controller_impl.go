package camera

import (
	"sync"

	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
// Orientation is stored as an immutable base rotation plus absolute yaw and
// pitch angles; the pose's rotation block is rebuilt from those three on every
// pointer event. Movement keys toggle per-direction held flags; each held
// transition adds or removes exactly one speed-scaled direction vector from
// the local velocity.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera pose (rotation in the upper-left 3x3, position in the right column)
	pose     mgl32.Mat4
	position mgl32.Vec3

	// Orientation state (pose rotation = rotationBase * RotY(yaw) * RotX(pitch))
	rotationBase mgl32.Mat3
	yaw          float32
	pitch        float32

	// Movement state
	velocity mgl32.Vec3
	speed    float32
	bindings [directionCount]uint32
	pressed  [directionCount]bool

	// Pointer-to-angle mapping
	viewportW float32
	viewportH float32

	probe CollisionProbe
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new first-person camera controller with
// sensible defaults: identity pose at the origin, a 5 units/second movement
// speed, an 800x600 viewport, and WASD plus Space/LeftShift bindings.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:           &sync.Mutex{},
		pose:         mgl32.Ident4(),
		rotationBase: mgl32.Ident3(),

		speed:     5.0,
		viewportW: 800,
		viewportH: 600,

		bindings: [directionCount]uint32{
			DirectionForward: common.KeyW,
			DirectionBack:    common.KeyS,
			DirectionLeft:    common.KeyA,
			DirectionRight:   common.KeyD,
			DirectionUp:      common.KeySpace,
			DirectionDown:    common.KeyLeftShift,
		},
	}

	for _, option := range options {
		option(cc)
	}

	if cc.speed < 0 {
		panic("camera: NewCameraController requires a non-negative speed")
	}
	if cc.viewportW <= 0 || cc.viewportH <= 0 {
		panic("camera: NewCameraController requires positive viewport dimensions")
	}

	cc.updatePose()
	return cc
}

// --- internal helpers ---

// lookupBinding resolves a key code to its bound direction. Unknown key codes
// are normalized to the DirectionDown binding before lookup, so platforms that
// report modifier keys as unknown still descend. Caller must hold the mutex.
func (cc *cameraControllerImpl) lookupBinding(code uint32) (Direction, bool) {
	if code == common.KeyUnknown {
		code = cc.bindings[DirectionDown]
	}
	for dir := Direction(0); dir < directionCount; dir++ {
		if cc.bindings[dir] == code {
			return dir, true
		}
	}
	return 0, false
}

// refreshVelocity recomputes the local-frame velocity from the set of held
// directions. Press and release keep the velocity current incrementally; this
// full rebuild is only needed when the speed changes under held keys.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) refreshVelocity() {
	v := mgl32.Vec3{}
	for dir, held := range cc.pressed {
		if held {
			v = v.Add(directionVectors[dir].Mul(cc.speed))
		}
	}
	cc.velocity = v
}

// updatePose rebuilds the pose from the base orientation, yaw, pitch, and
// position. Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePose() {
	rot := cc.rotationBase.Mul3(mgl32.Rotate3DY(cc.yaw)).Mul3(mgl32.Rotate3DX(cc.pitch))
	cc.pose.SetCol(0, rot.Col(0).Vec4(0))
	cc.pose.SetCol(1, rot.Col(1).Vec4(0))
	cc.pose.SetCol(2, rot.Col(2).Vec4(0))
	cc.pose.SetCol(3, cc.position.Vec4(1))
}

// --- motionCameraController implementation ---

func (cc *cameraControllerImpl) RegisterPress(code uint32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	dir, ok := cc.lookupBinding(code)
	if !ok {
		return false
	}
	if !cc.pressed[dir] {
		cc.pressed[dir] = true
		cc.velocity = cc.velocity.Add(directionVectors[dir].Mul(cc.speed))
	}
	return true
}

func (cc *cameraControllerImpl) RegisterRelease(code uint32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	dir, ok := cc.lookupBinding(code)
	if !ok {
		return false
	}
	if cc.pressed[dir] {
		cc.pressed[dir] = false
		cc.velocity = cc.velocity.Sub(directionVectors[dir].Mul(cc.speed))
	}
	return true
}

func (cc *cameraControllerImpl) Advance(dt float32) *mgl32.Mat4 {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.velocity != (mgl32.Vec3{}) {
		step := cc.pose.Mat3().Mul3x1(cc.velocity.Mul(dt))
		next := cc.position.Add(step)
		if cc.probe == nil || !cc.probe.Probe(next) {
			cc.position = next
			cc.pose.SetCol(3, cc.position.Vec4(1))
		}
	}
	return &cc.pose
}

func (cc *cameraControllerImpl) Velocity() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.velocity
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) SetSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if speed < 0 {
		panic("camera: SetSpeed requires a non-negative speed")
	}
	cc.speed = speed
	cc.refreshVelocity()
}

func (cc *cameraControllerImpl) Binding(direction Direction) uint32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.bindings[direction]
}

// --- pointerCameraController implementation ---

func (cc *cameraControllerImpl) SetPointer(px, py float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.yaw = math32.Pi - 2*math32.Pi*px/cc.viewportW
	cc.pitch = math32.Pi/2 - math32.Pi*py/cc.viewportH
	cc.updatePose()
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Pose() mgl32.Mat4 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pose
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = mgl32.Vec3{x, y, z}
	cc.pose.SetCol(3, cc.position.Vec4(1))
}

func (cc *cameraControllerImpl) ViewportSize() (width, height float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.viewportW, cc.viewportH
}

func (cc *cameraControllerImpl) SetViewportSize(width, height float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	cc.viewportW = width
	cc.viewportH = height
}

func (cc *cameraControllerImpl) Probe() CollisionProbe {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.probe
}

func (cc *cameraControllerImpl) SetProbe(probe CollisionProbe) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.probe = probe
}
