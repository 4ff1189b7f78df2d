package scene

import (
	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/Carmen-Shannon/rove-go/engine/collision"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithCloud attaches the initial point cloud to the scene.
//
// Parameters:
//   - cloud: the point cloud to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCloud(cloud *common.PointCloud) SceneBuilderOption {
	return func(s *scene) {
		s.cloud = cloud
	}
}

// WithDetector attaches a collision detector to the scene. The detector is
// wired into the camera controller as its movement probe when the scene is
// created.
//
// Parameters:
//   - det: the collision detector to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDetector(det collision.Detector) SceneBuilderOption {
	return func(s *scene) {
		s.det = det
	}
}

// WithCullWorkers sets the number of worker goroutines used during the
// parallel point classification phase of Update. Defaults to runtime.NumCPU()-1.
// Higher values may improve throughput on multi-million point clouds; lower
// values reduce scheduling overhead for small scenes.
//
// Parameters:
//   - n: the number of cull workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.cullWorkers = n
	}
}

// WithCullingDisabled disables frustum culling for the scene. When set to
// true, Update skips point classification and every point counts as visible.
// By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}
