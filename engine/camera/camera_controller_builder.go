package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the movement speed.
//
// Parameters:
//   - speed: movement speed in world units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithInitialPose sets the starting pose. The upper-left 3x3 block becomes the
// base orientation that pointer-driven yaw and pitch rotate against, and the
// right column becomes the starting position.
//
// Parameters:
//   - pose: 4x4 homogeneous camera-to-world pose
//
// Returns:
//   - CameraControllerOption: functional option to set the initial pose
func WithInitialPose(pose mgl32.Mat4) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pose = pose
		cc.rotationBase = pose.Mat3()
		cc.position = pose.Col(3).Vec3()
	}
}

// WithPosition sets the starting position without changing the base orientation.
//
// Parameters:
//   - x: X coordinate of the starting position
//   - y: Y coordinate of the starting position
//   - z: Z coordinate of the starting position
//
// Returns:
//   - CameraControllerOption: functional option to set the starting position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = mgl32.Vec3{x, y, z}
	}
}

// WithViewportSize sets the viewport dimensions used to convert pointer
// coordinates into angles.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - CameraControllerOption: functional option to set the viewport size
func WithViewportSize(width, height float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.viewportW = width
		cc.viewportH = height
	}
}

// WithCollisionProbe attaches a collision probe consulted on every movement step.
//
// Parameters:
//   - probe: the probe movement candidates are tested against
//
// Returns:
//   - CameraControllerOption: functional option to set the collision probe
func WithCollisionProbe(probe CollisionProbe) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.probe = probe
	}
}

// WithBinding rebinds a movement direction to a key code, replacing the default.
//
// Parameters:
//   - direction: the movement direction to rebind
//   - code: the key code to bind it to
//
// Returns:
//   - CameraControllerOption: functional option to set the binding
func WithBinding(direction Direction, code uint32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.bindings[direction] = code
	}
}
