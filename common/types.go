// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PointCloud holds the static point samples of a captured scene.
// Positions are world-space coordinates; Colors, when present, carry one
// 8-bit RGB triple per point and len(Colors) == len(Positions).
// The cloud is plain data: loaders produce it, the collision detector
// indexes it, and scenes expose it for downstream rendering.
type PointCloud struct {
	// Name identifies the cloud, typically the source file path or cache key.
	Name string

	// Positions is the ordered list of world-space point positions.
	Positions []mgl32.Vec3

	// Colors holds per-point RGB values parallel to Positions.
	// Empty when the source file carries no color properties.
	Colors [][3]uint8
}

// Count returns the number of points in the cloud.
//
// Returns:
//   - int: the point count
func (pc *PointCloud) Count() int {
	return len(pc.Positions)
}

// HasColors reports whether the cloud carries per-point color data.
//
// Returns:
//   - bool: true if every point has an RGB value
func (pc *PointCloud) HasColors() bool {
	return len(pc.Colors) == len(pc.Positions) && len(pc.Colors) > 0
}

// Bounds computes the axis-aligned bounding box of the cloud.
// Returns zero vectors for an empty cloud.
//
// Returns:
//   - min: the component-wise minimum corner
//   - max: the component-wise maximum corner
func (pc *PointCloud) Bounds() (min, max mgl32.Vec3) {
	if len(pc.Positions) == 0 {
		return
	}
	min = pc.Positions[0]
	max = pc.Positions[0]
	for _, p := range pc.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return
}

// Center returns the midpoint of the cloud's bounding box.
// Returns the zero vector for an empty cloud.
//
// Returns:
//   - mgl32.Vec3: the bounding box center
func (pc *PointCloud) Center() mgl32.Vec3 {
	min, max := pc.Bounds()
	return min.Add(max).Mul(0.5)
}

// VertexData returns the position data as a byte slice view for GPU buffer
// uploads (12 bytes per point, tightly packed vec3<f32>).
// WARNING: The returned slice shares memory with Positions - do not modify.
//
// Returns:
//   - []byte: byte view of the position data, or nil if the cloud is empty
func (pc *PointCloud) VertexData() []byte {
	return SliceToBytes(pc.Positions)
}

// ColorData returns the color data as a byte slice view for GPU buffer
// uploads (3 bytes per point, tightly packed). Returns nil when the cloud
// carries no colors.
//
// Returns:
//   - []byte: byte view of the color data, or nil
func (pc *PointCloud) ColorData() []byte {
	return SliceToBytes(pc.Colors)
}
