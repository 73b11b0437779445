package station

import (
	"io/fs"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archiveCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_archive_cache_hits_total",
		Help: "The total number of hits on the station archive cache",
	})
	archiveCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_archive_cache_misses_total",
		Help: "The total number of misses on the station archive cache",
	})
)

// An Archive is a directory of CSAG station files with an LRU cache of
// parsed series.
type Archive struct {
	mutex       sync.Mutex
	fsys        fs.FS
	cacheSize   int
	seriesCache *lru.Cache[string, *Series]
}

// An ArchiveOption sets an option on an Archive.
type ArchiveOption func(*Archive)

// WithArchiveSize sets the maximum number of parsed series kept in memory.
func WithArchiveSize(cacheSize int) ArchiveOption {
	return func(a *Archive) {
		a.cacheSize = cacheSize
	}
}

// NewArchive returns a new Archive reading from fsys.
func NewArchive(fsys fs.FS, options ...ArchiveOption) (*Archive, error) {
	a := &Archive{
		fsys:      fsys,
		cacheSize: 64,
	}
	for _, option := range options {
		option(a)
	}

	var err error
	a.seriesCache, err = lru.New[string, *Series](a.cacheSize)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Station returns the parsed series for the station file name, using the
// cache if possible.
func (a *Archive) Station(name string) (*Series, error) {
	if series, ok := a.seriesCache.Get(name); ok {
		archiveCacheHits.Inc()
		return series, nil
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if series, ok := a.seriesCache.Get(name); ok {
		archiveCacheHits.Inc()
		return series, nil
	}

	archiveCacheMisses.Inc()

	f, err := a.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	series, err := ReadCSAG(f)
	if err != nil {
		return nil, err
	}
	a.seriesCache.Add(name, series)
	return series, nil
}
