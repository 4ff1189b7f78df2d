package loader

import (
	"io"

	"github.com/Carmen-Shannon/rove-go/common"
)

// loaderBackend defines the generic interface for loading point clouds from files or streams.
// Concrete implementations (e.g., plyLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports a point cloud from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *common.PointCloud: the imported point cloud
	//   - error: error if loading fails
	Load(path string) (*common.PointCloud, error)

	// LoadReader imports a point cloud from a reader stream.
	//
	// Parameters:
	//   - name: the name to assign to the imported cloud
	//   - r: the reader providing point cloud data
	//
	// Returns:
	//   - *common.PointCloud: the imported point cloud
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*common.PointCloud, error)
}
