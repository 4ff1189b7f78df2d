package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Direction identifies one of the six movement axes a key can be bound to.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionBack
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown

	directionCount
)

// directionVectors maps each Direction to its unit vector in the camera's
// local frame. Forward is -Z, matching the right-handed view convention.
var directionVectors = [directionCount]mgl32.Vec3{
	DirectionForward: {0, 0, -1},
	DirectionBack:    {0, 0, 1},
	DirectionLeft:    {-1, 0, 0},
	DirectionRight:   {1, 0, 0},
	DirectionUp:      {0, 1, 0},
	DirectionDown:    {0, -1, 0},
}

// CollisionProbe reports whether a world-space position is blocked by scene
// geometry. Controllers consult the probe before committing a movement step;
// a rejected step leaves the camera where it was.
type CollisionProbe interface {
	// Probe returns true when the given position intersects solid geometry.
	//
	// Parameters:
	//   - position: world-space position to test
	//
	// Returns:
	//   - bool: true if the position is blocked
	Probe(position mgl32.Vec3) bool
}

// CameraController defines the union interface for first-person camera control.
// Controllers own the full camera pose (orientation plus position). Keyboard
// input drives a velocity in the camera's local frame, pointer input drives
// orientation, and Advance integrates both into the pose once per tick.
// Embeds motionCameraController and pointerCameraController so movement and
// look controls work simultaneously from a single controller instance.
type CameraController interface {
	motionCameraController
	pointerCameraController

	// Pose returns a copy of the current camera pose as a 4x4 homogeneous
	// matrix. The upper-left 3x3 block holds the orientation, the right
	// column holds the world-space position.
	//
	// Returns:
	//   - mgl32.Mat4: the current camera-to-world pose
	Pose() mgl32.Mat4

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly,
	// bypassing the collision probe.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// ViewportSize returns the viewport dimensions used to convert pointer
	// coordinates into angles.
	//
	// Returns:
	//   - width, height: viewport dimensions in pixels
	ViewportSize() (width, height float32)

	// SetViewportSize sets the viewport dimensions used to convert pointer
	// coordinates into angles. Non-positive dimensions are ignored; minimized
	// windows report a zero-sized framebuffer.
	//
	// Parameters:
	//   - width, height: viewport dimensions in pixels
	SetViewportSize(width, height float32)

	// Probe returns the attached collision probe, or nil if movement is
	// unobstructed.
	//
	// Returns:
	//   - CollisionProbe: the attached probe or nil
	Probe() CollisionProbe

	// SetProbe attaches a collision probe consulted on every movement step.
	// Passing nil detaches the probe.
	//
	// Parameters:
	//   - probe: the probe to attach, or nil
	SetProbe(probe CollisionProbe)
}

// motionCameraController defines keyboard-driven movement methods.
// Pressed keys contribute a constant velocity along their bound direction in
// the camera's local frame; Advance rotates that velocity into world space
// and integrates it over elapsed time.
type motionCameraController interface {
	// RegisterPress records a key press. Unknown key codes are normalized to
	// the code bound to DirectionDown before lookup. The first press of a
	// bound key adds speed along its direction to the local velocity; repeat
	// presses while the key is held change nothing.
	//
	// Parameters:
	//   - code: platform key code
	//
	// Returns:
	//   - bool: true if the code is bound to a direction, regardless of
	//     whether the press changed the velocity
	RegisterPress(code uint32) bool

	// RegisterRelease records a key release. Unknown key codes are normalized
	// to the code bound to DirectionDown before lookup. Releasing a held key
	// removes its contribution from the local velocity; releasing a key that
	// was never pressed changes nothing.
	//
	// Parameters:
	//   - code: platform key code
	//
	// Returns:
	//   - bool: true if the code is bound to a direction
	RegisterRelease(code uint32) bool

	// Advance integrates the current velocity over dt and returns the updated
	// pose. The local velocity is rotated by the current orientation, scaled
	// by dt, and added to the position. When a collision probe is attached
	// and rejects the candidate position, the position is left unchanged and
	// no error is reported.
	//
	// The returned pointer refers to the controller's internal pose and is
	// rewritten by subsequent calls. Call Advance and read the result from
	// the goroutine driving the tick loop; use Pose for a synchronized copy.
	//
	// Parameters:
	//   - dt: elapsed time in seconds, must be non-negative
	//
	// Returns:
	//   - *mgl32.Mat4: the controller's pose after integration
	Advance(dt float32) *mgl32.Mat4

	// Velocity returns the current velocity in the camera's local frame.
	//
	// Returns:
	//   - mgl32.Vec3: local-frame velocity
	Velocity() mgl32.Vec3

	// Speed returns the movement speed in world units per second.
	//
	// Returns:
	//   - float32: movement speed
	Speed() float32

	// SetSpeed sets the movement speed in world units per second and rescales
	// the velocity contributions of any currently held keys.
	//
	// Parameters:
	//   - speed: movement speed, must be non-negative
	SetSpeed(speed float32)

	// Binding returns the key code bound to the given direction.
	//
	// Parameters:
	//   - direction: the movement direction
	//
	// Returns:
	//   - uint32: the bound key code
	Binding(direction Direction) uint32
}

// pointerCameraController defines pointer-driven orientation methods.
// The pointer position maps linearly onto yaw and pitch: the viewport's
// horizontal extent spans a full turn and the vertical extent spans the range
// from straight up to straight down. The orientation is rebuilt from the base
// orientation, yaw, and pitch on every update; yaw and pitch are absolute,
// not incremental, so repeated pointer events cannot accumulate error.
type pointerCameraController interface {
	// SetPointer derives yaw and pitch from a pointer position and rebuilds
	// the orientation. Coordinates outside the viewport are valid and extend
	// the angles past a full turn; pitch is not clamped.
	//
	// Parameters:
	//   - px, py: pointer position in pixels, origin at the top-left
	SetPointer(px, py float32)

	// Yaw returns the current yaw angle in radians.
	//
	// Returns:
	//   - float32: yaw around the Y axis
	Yaw() float32

	// Pitch returns the current pitch angle in radians.
	//
	// Returns:
	//   - float32: pitch around the X axis
	Pitch() float32
}
