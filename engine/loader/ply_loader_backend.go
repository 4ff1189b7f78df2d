package loader

import (
	"io"

	"github.com/Carmen-Shannon/rove-go/common"
)

// plyLoaderBackendImpl is the implementation of plyLoaderBackend.
type plyLoaderBackendImpl struct {
	parser plyParser
}

// plyLoaderBackend is a loaderBackend implementation for ply point cloud files.
// It delegates to the plyParser for header parsing and vertex decoding.
type plyLoaderBackend interface {
	loaderBackend
}

var _ plyLoaderBackend = &plyLoaderBackendImpl{}

// newPLYLoaderBackend creates a new ply loader backend.
//
// Returns:
//   - plyLoaderBackend: the loader backend for ply files
func newPLYLoaderBackend() plyLoaderBackend {
	return &plyLoaderBackendImpl{
		parser: newPLYParser(),
	}
}

func (b *plyLoaderBackendImpl) Load(path string) (*common.PointCloud, error) {
	return b.parser.Parse(path)
}

func (b *plyLoaderBackendImpl) LoadReader(name string, r io.Reader) (*common.PointCloud, error) {
	return b.parser.ParseReader(name, r)
}
