package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined Projection * View matrix.
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	var f Frustum

	// For column-major matrix M, element M[row][col] is at index col*4 + row
	// So M[i][j] = viewProj[j*4 + i]

	// Left plane: row3 + row0
	f.Planes[FrustumLeft].Normal = mgl32.Vec3{
		viewProj[3] + viewProj[0],
		viewProj[7] + viewProj[4],
		viewProj[11] + viewProj[8],
	}
	f.Planes[FrustumLeft].Distance = viewProj[15] + viewProj[12]

	// Right plane: row3 - row0
	f.Planes[FrustumRight].Normal = mgl32.Vec3{
		viewProj[3] - viewProj[0],
		viewProj[7] - viewProj[4],
		viewProj[11] - viewProj[8],
	}
	f.Planes[FrustumRight].Distance = viewProj[15] - viewProj[12]

	// Bottom plane: row3 + row1
	f.Planes[FrustumBottom].Normal = mgl32.Vec3{
		viewProj[3] + viewProj[1],
		viewProj[7] + viewProj[5],
		viewProj[11] + viewProj[9],
	}
	f.Planes[FrustumBottom].Distance = viewProj[15] + viewProj[13]

	// Top plane: row3 - row1
	f.Planes[FrustumTop].Normal = mgl32.Vec3{
		viewProj[3] - viewProj[1],
		viewProj[7] - viewProj[5],
		viewProj[11] - viewProj[9],
	}
	f.Planes[FrustumTop].Distance = viewProj[15] - viewProj[13]

	// Near plane: row3 + row2
	f.Planes[FrustumNear].Normal = mgl32.Vec3{
		viewProj[3] + viewProj[2],
		viewProj[7] + viewProj[6],
		viewProj[11] + viewProj[10],
	}
	f.Planes[FrustumNear].Distance = viewProj[15] + viewProj[14]

	// Far plane: row3 - row2
	f.Planes[FrustumFar].Normal = mgl32.Vec3{
		viewProj[3] - viewProj[2],
		viewProj[7] - viewProj[6],
		viewProj[11] - viewProj[10],
	}
	f.Planes[FrustumFar].Distance = viewProj[15] - viewProj[14]

	// Normalize all planes
	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := math32.Sqrt(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)

	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}

// ContainsPoint reports whether a world-space point lies inside the frustum.
//
// Parameters:
//   - point: the world-space position to test
//
// Returns:
//   - bool: true if the point is inside or on every frustum plane
func (f *Frustum) ContainsPoint(point mgl32.Vec3) bool {
	for i := range f.Planes {
		p := &f.Planes[i]
		if p.Normal.Dot(point)+p.Distance < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a world-space sphere overlaps the frustum.
// Conservative: spheres near frustum corners may report true.
//
// Parameters:
//   - center: the sphere center in world space
//   - radius: the sphere radius
//
// Returns:
//   - bool: true if the sphere is at least partially inside the frustum
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for i := range f.Planes {
		p := &f.Planes[i]
		if p.Normal.Dot(center)+p.Distance < -radius {
			return false
		}
	}
	return true
}
