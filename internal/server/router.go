// internal/server/router.go
//
// Dev-server routes.
//
/*
Context
--------
  GET /healthz     – liveness, plain "ok"
  GET /metrics     – Prometheus exposition (global registry)
  GET /site.json   – the current site_info record, revalidated when the
                     project file changes
  GET /*           – static files from the build output directory

/site.json answers 422 with `{"error", "kind"}` when the project file is
present but invalid, so a browser tab left open shows the diagnostic
instead of stale data.

Oxford commas, two spaces after periods.
*/
package server

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

// SiteSource yields the current site record.  *project.Reloader
// implements it.
type SiteSource interface {
	Current() (siteinfo.SiteInfo, error)
	Touched() time.Time
}

// Options configures Router.
type Options struct {
	Site SiteSource

	// OutputDir is served at "/".  Empty disables static files.
	OutputDir string
}

// Router builds the dev-server handler.
func Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(AccessLog)
	r.Use(Security)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	if opts.Site != nil {
		r.Get("/site.json", siteHandler(opts.Site))
	}
	if opts.OutputDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.OutputDir)))
	}
	return r
}

func siteHandler(src SiteSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		info, err := src.Current()
		if err != nil {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, fs.ErrNotExist) {
				status = http.StatusNotFound
			}
			writeJSON(w, status, map[string]string{
				"error": err.Error(),
				"kind":  siteinfo.KindOf(err),
			})
			return
		}
		if t := src.Touched(); !t.IsZero() {
			w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
		}
		w.Header().Set("Cache-Control", "no-cache")
		writeJSON(w, http.StatusOK, info)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.S().Errorw("encode response", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
