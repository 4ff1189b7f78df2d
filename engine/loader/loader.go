package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/rove-go/common"
)

// LoaderBackendType identifies the point cloud file format backend to use.
type LoaderBackendType int

const (
	// BackendTypePLY selects the ply loader backend.
	BackendTypePLY LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cloudCache map[string]*common.PointCloud

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching point clouds.
// It abstracts the file format (ply, etc.) behind a generic backend and manages
// a cache of previously loaded clouds.
type Loader interface {
	// Load imports a point cloud file and caches the result.
	// If the cloud is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.ply → ply backend).
	//
	// Parameters:
	//   - path: the file path to the point cloud file
	//
	// Returns:
	//   - *common.PointCloud: the loaded and cached point cloud
	//   - error: error if loading fails
	Load(path string) (*common.PointCloud, error)

	// LoadReader imports a point cloud from a reader stream and caches it by
	// the given name. The format is detected from the stream header.
	//
	// Parameters:
	//   - name: the cache key and cloud name for the loaded data
	//   - r: the reader providing point cloud data
	//
	// Returns:
	//   - *common.PointCloud: the loaded point cloud
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*common.PointCloud, error)

	// Get retrieves a cached point cloud by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *common.PointCloud: the cached cloud or nil
	Get(name string) *common.PointCloud

	// Clouds returns the full point cloud cache.
	//
	// Returns:
	//   - map[string]*common.PointCloud: all cached clouds keyed by name
	Clouds() map[string]*common.PointCloud
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypePLY)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		cloudCache: make(map[string]*common.PointCloud),
	}

	switch backendType {
	case BackendTypePLY:
		l.backend = newPLYLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*common.PointCloud, error) {
	l.mu.RLock()
	if cached, ok := l.cloudCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	cloud, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.cloudCache[path] = cloud
	l.mu.Unlock()

	return cloud, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*common.PointCloud, error) {
	l.mu.RLock()
	if cached, ok := l.cloudCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	cloud, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.cloudCache[name] = cloud
	l.mu.Unlock()

	return cloud, nil
}

func (l *loader) Get(name string) *common.PointCloud {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cloudCache[name]
}

func (l *loader) Clouds() map[string]*common.PointCloud {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*common.PointCloud, len(l.cloudCache))
	for k, v := range l.cloudCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only ply is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ply":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported point cloud format: %s", ext)
	}
}
