// internal/project/project.go
//
// Project discovery and site_info loading.
//
/*
Context
--------
A project is a directory holding `lightning.yaml` (or `lightning.json`).
`Find` resolves LX_ROOT or climbs from the working directory until it sees
one, so `lx` works from any sub-directory.  `LoadSite` is the boundary
between raw bytes and the validator:

  1. read the file,
  2. parse it into a document tree (YAML, or JSON by extension),
  3. hand the `site_info` mapping to `siteinfo.Validator`.

Every call is timed and counted in `internal/metrics`; failures are
labelled with `siteinfo.KindOf`.

Instrumentation
---------------
  • DEBUG span: file parsed.
  • WARN  span: validation failed (the diagnostic is returned, not logged
    in full, so the CLI prints it once).
  • INFO  span: site loaded with title and URL.
*/
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/igxactly-forks/lightning/internal/document"
	"github.com/igxactly-forks/lightning/internal/metrics"
	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

// FileNames lists project file names in lookup order.
var FileNames = []string{"lightning.yaml", "lightning.yml", "lightning.json"}

// ErrNotFound is returned when no project file exists up the tree.
var ErrNotFound = errors.New("project: no lightning.yaml found")

/*──────────────────────────── discovery ───────────────────────────────────*/

// Find returns the project file for the current process: under LX_ROOT
// when set, otherwise the nearest one at or above the working directory.
func Find() (string, error) {
	if r := os.Getenv("LX_ROOT"); r != "" {
		if f := fileIn(r); f != "" {
			return f, nil
		}
		return "", fmt.Errorf("%w in LX_ROOT %s", ErrNotFound, r)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindFrom(wd)
}

// FindFrom climbs from dir to the filesystem root.
func FindFrom(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if f := fileIn(dir); f != "" {
			return f, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			return "", ErrNotFound
		}
		dir = parent
	}
}

func fileIn(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

/*──────────────────────────── loading ─────────────────────────────────────*/

// LoadError ties a failure to the file it came from.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// Parse reads path into a document tree.  `.json` files use the JSON front
// end; everything else is YAML.
func Parse(path string) (document.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Value{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return document.ParseJSON(data)
	}
	return document.ParseYAML(data)
}

// LoadSite parses path and validates its site_info section with v (nil
// selects the default validator).
func LoadSite(path string, v *siteinfo.Validator) (siteinfo.SiteInfo, error) {
	if v == nil {
		v = siteinfo.NewValidator(nil, nil)
	}
	start := time.Now()
	defer func() { metrics.SiteLoadSeconds.Observe(time.Since(start).Seconds()) }()

	doc, err := Parse(path)
	if err != nil {
		metrics.SiteLoadErrorsTotal.WithLabelValues("parse").Inc()
		return siteinfo.SiteInfo{}, &LoadError{Path: path, Err: err}
	}
	zap.S().Debugw("project file parsed", "file", path, "kind", doc.Kind().String())

	info, err := v.FromSection(doc, siteinfo.Section)
	if err != nil {
		kind := siteinfo.KindOf(err)
		metrics.SiteLoadErrorsTotal.WithLabelValues(kind).Inc()
		zap.S().Warnw("site_info invalid", "file", path, "kind", kind)
		return siteinfo.SiteInfo{}, &LoadError{Path: path, Err: err}
	}

	metrics.SiteLoadTotal.Inc()
	zap.S().Infow("site loaded", "file", path, "title", info.Title, "url", info.URL.String())
	return info, nil
}
