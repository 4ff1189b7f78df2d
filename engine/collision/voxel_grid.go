package collision

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cellSpan locates one occupied cell's points inside the flat index array.
type cellSpan struct {
	start int32
	count int32
}

// voxelGrid is a static spatial hash over the point set. The cell edge
// length equals the probe radius, so a probe sphere centered anywhere is
// fully covered by the 3x3x3 cell neighborhood of its center cell.
// Points are bucketed in CSR form: one span per occupied cell indexing into
// a single flat array of point indices. Built once, never mutated.
type voxelGrid struct {
	cellSize float32
	invCell  float32

	points []mgl32.Vec3

	cells   map[uint64]cellSpan
	indices []int32
}

// minBuildChunk is the smallest per-worker slice worth the task overhead;
// point sets below workers*minBuildChunk are hashed serially.
const minBuildChunk = 4096

// buildQueueSize is the hashing pool's task queue capacity. Chunk sizing
// never yields more tasks than this, so SubmitTask cannot hit a full queue.
const buildQueueSize = 256

// Cell coordinates are packed 21 bits per axis with a bias, covering
// ±2^20 cells around the origin. Coordinates beyond that wrap and alias
// distant buckets together; the exact distance test in contactsWithin
// filters aliased points, so wrapping costs query time but never
// correctness.
const (
	cellBias = 1 << 20
	cellMask = 1<<21 - 1
)

// packCell packs three signed cell coordinates into one 64-bit map key.
func packCell(x, y, z int32) uint64 {
	return uint64(uint32(x+cellBias)&cellMask) |
		uint64(uint32(y+cellBias)&cellMask)<<21 |
		uint64(uint32(z+cellBias)&cellMask)<<42
}

// newVoxelGrid indexes the point set into cells of the given edge length.
// Cell-key computation fans out over a worker pool for large point sets;
// the counting sort into CSR spans is serial.
//
// Parameters:
//   - points: the point set to index (captured by reference)
//   - cellSize: cell edge length, equal to the probe radius
//   - workers: worker count for the parallel hashing phase
//
// Returns:
//   - *voxelGrid: the built grid
func newVoxelGrid(points []mgl32.Vec3, cellSize float32, workers int) *voxelGrid {
	g := &voxelGrid{
		cellSize: cellSize,
		invCell:  1.0 / cellSize,
		points:   points,
	}

	// Phase 1: compute every point's cell key. Chunks write disjoint ranges
	// of the keys array, so the WaitGroup barrier is the only sync needed.
	keys := make([]uint64, len(points))
	if workers > 1 && len(points) >= workers*minBuildChunk {
		chunk := max((len(points)+workers*4-1)/(workers*4), minBuildChunk)
		chunk = max(chunk, (len(points)+buildQueueSize-1)/buildQueueSize)
		pool := worker.NewDynamicWorkerPool(workers, buildQueueSize, 1*time.Second)

		var wg sync.WaitGroup
		taskID := 0
		for start := 0; start < len(points); start += chunk {
			end := min(start+chunk, len(points))
			wg.Add(1)
			lo, hi := start, end
			id := taskID
			taskID++
			pool.SubmitTask(worker.Task{
				ID: id,
				Do: func() (any, error) {
					defer wg.Done()
					for i := lo; i < hi; i++ {
						keys[i] = g.cellKey(points[i])
					}
					return nil, nil
				},
			})
		}
		wg.Wait()
	} else {
		for i, p := range points {
			keys[i] = g.cellKey(p)
		}
	}

	// Phase 2: counting sort into CSR spans.
	counts := make(map[uint64]int32, len(points)/8+1)
	for _, k := range keys {
		counts[k]++
	}

	g.cells = make(map[uint64]cellSpan, len(counts))
	var offset int32
	for k, n := range counts {
		g.cells[k] = cellSpan{start: offset}
		offset += n
	}

	g.indices = make([]int32, len(points))
	for i, k := range keys {
		span := g.cells[k]
		g.indices[span.start+span.count] = int32(i)
		span.count++
		g.cells[k] = span
	}

	return g
}

// cellKey returns the packed cell key for a world-space position.
func (g *voxelGrid) cellKey(p mgl32.Vec3) uint64 {
	return packCell(
		int32(math32.Floor(p[0]*g.invCell)),
		int32(math32.Floor(p[1]*g.invCell)),
		int32(math32.Floor(p[2]*g.invCell)),
	)
}

// contactsWithin counts indexed points inside the sphere at center, stopping
// early once maxContacts is reached. radius must not exceed the cell size or
// the 3x3x3 neighborhood no longer covers the sphere.
//
// Parameters:
//   - center: world-space sphere center
//   - radius: sphere radius
//   - maxContacts: enumeration cap (must be >= 1)
//
// Returns:
//   - int: the number of contacts found, at most maxContacts
func (g *voxelGrid) contactsWithin(center mgl32.Vec3, radius float32, maxContacts int) int {
	r2 := radius * radius
	cx := int32(math32.Floor(center[0] * g.invCell))
	cy := int32(math32.Floor(center[1] * g.invCell))
	cz := int32(math32.Floor(center[2] * g.invCell))

	contacts := 0
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				span, ok := g.cells[packCell(cx+dx, cy+dy, cz+dz)]
				if !ok {
					continue
				}
				for _, idx := range g.indices[int(span.start):int(span.start + span.count)] {
					d := g.points[idx].Sub(center)
					if d.Dot(d) <= r2 {
						contacts++
						if contacts >= maxContacts {
							return contacts
						}
					}
				}
			}
		}
	}
	return contacts
}
