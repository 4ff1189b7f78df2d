package loader

import (
	"github.com/Carmen-Shannon/rove-go/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithPointCloud is an option builder that pre-populates the cloud cache.
// Useful for procedurally generated clouds that bypass the file pipeline.
//
// Parameters:
//   - key: the cache key for the cloud
//   - cloud: the point cloud to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithPointCloud(key string, cloud *common.PointCloud) LoaderBuilderOption {
	return func(l *loader) {
		l.cloudCache[key] = cloud
	}
}
