package geotiff

import (
	"errors"
	"io/fs"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	raster "github.com/hydrolab/go-raster"
)

var (
	missingGridCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geotiff_missing_grid_cache_hits_total",
		Help: "The total number of hits on the missing grid cache",
	})
	missingGridCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geotiff_missing_grid_cache_misses_total",
		Help: "The total number of misses on the missing grid cache",
	})
	gridCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geotiff_grid_cache_hits_total",
		Help: "The total number of hits on the grid cache",
	})
	gridCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geotiff_grid_cache_misses_total",
		Help: "The total number of misses on the grid cache",
	})
	gridCacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geotiff_grid_cache_evictions_total",
		Help: "The total number of evictions from the grid cache",
	})
)

// A Store keeps decoded grids from a filesystem of GeoTIFF files in an LRU
// cache. Files that do not exist are remembered and reported as (nil, nil)
// without touching the filesystem again.
type Store struct {
	mutex        sync.Mutex
	fsys         fs.FS
	readOptions  []ReadOption
	cacheSize    int
	missingGrids sync.Map
	gridCache    *lru.Cache[string, *raster.Raster]
}

// A StoreOption sets an option on a Store.
type StoreOption func(*Store)

// WithReadOptions sets the options passed to Read for every grid the Store
// loads.
func WithReadOptions(readOptions ...ReadOption) StoreOption {
	return func(s *Store) {
		s.readOptions = readOptions
	}
}

// WithStoreSize sets the maximum number of decoded grids kept in memory.
func WithStoreSize(cacheSize int) StoreOption {
	return func(s *Store) {
		s.cacheSize = cacheSize
	}
}

// NewStore returns a new Store reading from fsys.
func NewStore(fsys fs.FS, options ...StoreOption) (*Store, error) {
	s := &Store{
		fsys:      fsys,
		cacheSize: 16,
	}
	for _, option := range options {
		option(s)
	}

	var err error
	s.gridCache, err = lru.NewWithEvict(s.cacheSize, func(string, *raster.Raster) {
		gridCacheEvictions.Inc()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the decoded grid stored at filename, using the cache if
// possible. A missing file is not an error: it returns (nil, nil) and is
// remembered as missing.
func (s *Store) Get(filename string) (*raster.Raster, error) {
	if _, ok := s.missingGrids.Load(filename); ok {
		missingGridCacheHits.Inc()
		return nil, nil
	}

	if grid, ok := s.gridCache.Get(filename); ok {
		gridCacheHits.Inc()
		return grid, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.missingGrids.Load(filename); ok {
		missingGridCacheHits.Inc()
		return nil, nil
	}

	if grid, ok := s.gridCache.Get(filename); ok {
		gridCacheHits.Inc()
		return grid, nil
	}

	gridCacheMisses.Inc()

	switch grid, err := Read(s.fsys, filename, s.readOptions...); {
	case errors.Is(err, fs.ErrNotExist):
		s.missingGrids.Store(filename, struct{}{})
		missingGridCacheMisses.Inc()
		return nil, nil
	case err != nil:
		return nil, err
	default:
		s.gridCache.Add(filename, grid)
		return grid, nil
	}
}
