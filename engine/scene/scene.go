package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/Carmen-Shannon/rove-go/engine/camera"
	"github.com/Carmen-Shannon/rove-go/engine/collision"
)

// cullChunkSize is the number of points classified per parallel cull task.
// Below one chunk the fan-out overhead exceeds the classification work, so
// small clouds are culled serially.
const cullChunkSize = 4096

// cullQueueSize is the cull pool's task queue capacity. Update never submits
// more than this many tasks per frame, so SubmitTask cannot hit a full queue.
const cullQueueSize = 256

// Scene manages a point cloud, the camera walking through it, and an optional
// collision detector built over the cloud. Each Update advances the camera's
// controller, refreshes the view matrices, and rebuilds the set of points
// inside the view frustum for downstream rendering.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera. If the scene holds a collision
	// detector, it is re-wired as the new camera controller's probe.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Cloud returns the scene's point cloud, or nil if none is attached.
	Cloud() *common.PointCloud

	// SetCloud replaces the scene's point cloud and resets the visibility
	// state. Replacing the cloud does not rebuild the collision detector;
	// attach a detector built over the new cloud via SetDetector.
	//
	// Parameters:
	//   - cloud: the new point cloud
	SetCloud(cloud *common.PointCloud)

	// Detector returns the scene's collision detector, or nil if none is attached.
	Detector() collision.Detector

	// SetDetector attaches a collision detector and wires it into the camera
	// controller as its movement probe. Passing nil detaches the probe and
	// lets the camera move freely.
	//
	// Parameters:
	//   - det: the detector to attach, or nil
	SetDetector(det collision.Detector)

	// CullingDisabled returns whether frustum culling is explicitly disabled for this scene.
	// When true, Update skips point classification and every point counts as visible.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum culling for this scene.
	//
	// Parameters:
	//   - disabled: true to disable culling, false to enable it
	SetCullingDisabled(disabled bool)

	// Update advances the scene by one simulation step: the camera controller
	// integrates held movement keys, the camera matrices are refreshed from the
	// new pose, and the cloud is re-classified against the view frustum.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update in seconds
	Update(deltaTime float32)

	// VisibleCount returns the number of cloud points inside the view frustum
	// at the last Update. Before any Update, and whenever culling is disabled,
	// it reports the full point count.
	//
	// Returns:
	//   - int: count of visible points
	VisibleCount() int

	// VisibleIndices returns the indices of the visible points in cloud order,
	// as built by the last Update. Returns nil when culling is disabled or no
	// Update has run; nil means every point is drawn.
	// The returned slice is reused by the next Update; callers must copy it to
	// retain it across frames.
	//
	// Returns:
	//   - []uint32: visible point indices, or nil
	VisibleIndices() []uint32
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cloud *common.PointCloud
	cam   camera.Camera
	det   collision.Detector

	cullingDisabled bool // when true, skips point classification entirely

	visibleCount int
	visible      []uint32   // reusable visible index slice, rebuilt each Update
	chunkScratch [][]uint32 // per-task index scratch, reused across frames

	// cullPool manages a bounded set of reusable goroutines for the parallel
	// point classification phase of Update. Workers persist across frames,
	// avoiding per-frame goroutine spawn/teardown overhead.
	cullPool    worker.DynamicWorkerPool
	cullWorkers int // stored so we can log/inspect the configured count
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera. The camera is required
// and NewScene panics if it is nil. A cloud and detector can be attached via
// options or later via SetCloud and SetDetector.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		active:      false,
		cam:         cam,
		cullWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the cull pool after options so WithCullWorkers can override the default.
	s.cullPool = worker.NewDynamicWorkerPool(s.cullWorkers, cullQueueSize, 1*time.Second)

	if s.det != nil {
		if ctrl := s.cam.Controller(); ctrl != nil {
			ctrl.SetProbe(s.det)
		}
	}
	if s.cloud != nil {
		s.visibleCount = s.cloud.Count()
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
	if s.det != nil && cam != nil {
		if ctrl := cam.Controller(); ctrl != nil {
			ctrl.SetProbe(s.det)
		}
	}
}

func (s *scene) Cloud() *common.PointCloud {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud
}

func (s *scene) SetCloud(cloud *common.PointCloud) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cloud = cloud
	s.visible = s.visible[:0]
	if cloud != nil {
		s.visibleCount = cloud.Count()
	} else {
		s.visibleCount = 0
	}
}

func (s *scene) Detector() collision.Detector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.det
}

func (s *scene) SetDetector(det collision.Detector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.det = det
	if s.cam != nil {
		if ctrl := s.cam.Controller(); ctrl != nil {
			ctrl.SetProbe(det)
		}
	}
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Update(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cam == nil {
		return
	}

	// Advance the walker and refresh view/projection from the new pose.
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.Advance(deltaTime)
	}
	s.cam.Update()

	if s.cloud == nil || s.cloud.Count() == 0 {
		s.visibleCount = 0
		s.visible = s.visible[:0]
		return
	}
	if s.cullingDisabled {
		s.visibleCount = s.cloud.Count()
		s.visible = s.visible[:0]
		return
	}

	s.cullAgainst(s.cam.Frustum())
}

func (s *scene) VisibleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleCount
}

func (s *scene) VisibleIndices() []uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cullingDisabled || len(s.visible) == 0 {
		return nil
	}
	return s.visible
}

// cullAgainst rebuilds the visible index list by classifying every cloud point
// against the view frustum. Caller must hold the write lock.
//
// Phase 1 (parallel): fan contiguous point ranges out to the cull pool.
// Workers are reused across frames (no goroutine spawn overhead). A WaitGroup
// provides per-frame barrier sync since pool.Wait() blocks until workers
// idle-exit which is unsuitable for frame-rate workloads.
// Phase 2 (serial): concatenate the per-range index lists in point order.
func (s *scene) cullAgainst(frustum common.Frustum) {
	positions := s.cloud.Positions
	n := len(positions)

	taskCount := (n + cullChunkSize - 1) / cullChunkSize
	if taskCount > s.cullWorkers*4 {
		// Cap tasks at 4 per worker so per-task overhead stays amortized
		// on large clouds.
		taskCount = s.cullWorkers * 4
	}
	if taskCount > cullQueueSize {
		taskCount = cullQueueSize
	}

	if taskCount <= 1 {
		s.visible = s.visible[:0]
		for i, p := range positions {
			if frustum.ContainsPoint(p) {
				s.visible = append(s.visible, uint32(i))
			}
		}
		s.visibleCount = len(s.visible)
		return
	}

	if cap(s.chunkScratch) < taskCount {
		s.chunkScratch = make([][]uint32, taskCount)
	}
	s.chunkScratch = s.chunkScratch[:taskCount]

	chunkLen := (n + taskCount - 1) / taskCount

	var wg sync.WaitGroup
	for t := 0; t < taskCount; t++ {
		start := t * chunkLen
		end := min(start+chunkLen, n)
		if start >= end {
			s.chunkScratch[t] = s.chunkScratch[t][:0]
			continue
		}

		wg.Add(1)
		tCap := t // capture for closure
		s.cullPool.SubmitTask(worker.Task{
			ID: t,
			Do: func() (any, error) {
				defer wg.Done()

				out := s.chunkScratch[tCap][:0]
				for i := start; i < end; i++ {
					if frustum.ContainsPoint(positions[i]) {
						out = append(out, uint32(i))
					}
				}
				s.chunkScratch[tCap] = out
				return nil, nil
			},
		})
	}
	wg.Wait()

	s.visible = s.visible[:0]
	for _, chunk := range s.chunkScratch {
		s.visible = append(s.visible, chunk...)
	}
	s.visibleCount = len(s.visible)
}
