package project

import (
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/igxactly-forks/lightning/internal/cache"
	"github.com/igxactly-forks/lightning/internal/metrics"
	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

// fileState identifies one version of the project file on disk.
type fileState struct {
	size    int64
	modTime int64
}

// Reloader serves the SiteInfo for the current content of one project
// file.  Each change on disk yields a freshly validated record; the old
// one is never touched.  Concurrent callers that hit a cold entry share
// one load through singleflight.
type Reloader struct {
	path  string
	v     *siteinfo.Validator
	sfg   singleflight.Group
	cache *cache.LRU[fileState, siteinfo.SiteInfo]

	// OnLoad, when set, runs after each version of the file that was not
	// already cached validates, including the first.  Set it before the
	// first call to Current.
	OnLoad func(siteinfo.SiteInfo)
}

// NewReloader keeps up to capacity recent versions of path.
func NewReloader(path string, v *siteinfo.Validator, capacity int) *Reloader {
	c := cache.New[fileState, siteinfo.SiteInfo](capacity)
	c.OnEvict = func(fileState, siteinfo.SiteInfo) { metrics.SiteCacheEntries.Dec() }
	return &Reloader{path: path, v: v, cache: c}
}

// Path returns the watched file.
func (r *Reloader) Path() string { return r.path }

// Current returns the record for the file as it is now.
func (r *Reloader) Current() (siteinfo.SiteInfo, error) {
	fi, err := os.Stat(r.path)
	if err != nil {
		return siteinfo.SiteInfo{}, &LoadError{Path: r.path, Err: err}
	}
	key := fileState{size: fi.Size(), modTime: fi.ModTime().UnixNano()}
	if info, ok := r.cache.Get(key); ok {
		return info, nil
	}

	v, err, _ := r.sfg.Do(r.path, func() (any, error) {
		// Double-check after singleflight barrier.
		if info, ok := r.cache.Get(key); ok {
			return info, nil
		}
		info, err := LoadSite(r.path, r.v)
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, info)
		metrics.SiteCacheEntries.Inc()
		if r.OnLoad != nil {
			r.OnLoad(info)
		}
		return info, nil
	})
	if err != nil {
		return siteinfo.SiteInfo{}, err
	}
	return v.(siteinfo.SiteInfo), nil
}

// Touched reports the last modification time of the file, or zero.
func (r *Reloader) Touched() time.Time {
	fi, err := os.Stat(r.path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
