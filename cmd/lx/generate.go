package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/igxactly-forks/lightning/internal/catalog"
	"github.com/igxactly-forks/lightning/internal/config"
	"github.com/igxactly-forks/lightning/internal/database"
	"github.com/igxactly-forks/lightning/internal/logger"
	"github.com/igxactly-forks/lightning/internal/project"
	"github.com/igxactly-forks/lightning/internal/secrets"
	"github.com/igxactly-forks/lightning/internal/server"
	"github.com/igxactly-forks/lightning/internal/siteinfo"
	"github.com/igxactly-forks/lightning/internal/validated"
)

// ManifestName is written into the output directory by `lx generate`.
const ManifestName = "site.json"

// reloaderCapacity is how many recent versions of the project file the
// dev server keeps validated.
const reloaderCapacity = 8

func generateCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	local := fs.Bool("local", false, "use local paths to resources")
	var serve bool
	fs.BoolVar(&serve, "serve", false, "serve the output directory after generating")
	fs.BoolVar(&serve, "s", false, "shorthand for --serve")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path, err := project.Find()
	if err != nil {
		return failf(stderr, "%v", err)
	}

	//
	// ── 1.  site_info first, so duplicate keys get a precise diagnostic ──
	//
	v := siteinfo.NewValidator(nil, nil)
	info, err := project.LoadSite(path, v)
	if err != nil {
		return failf(stderr, "%v", err)
	}

	//
	// ── 2.  Operational settings, secrets, and logger ───────────────────
	//
	vault := secrets.NewVault(zap.S())
	cfg, err := config.Load(ctx, config.Options{File: path, Secrets: vault})
	if err != nil {
		return failf(stderr, "settings: %v", err)
	}
	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level, logger.RunningInTTY())
	if err != nil {
		return failf(stderr, "start logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 3.  Manifest ────────────────────────────────────────────────────
	//
	manifest := info
	if *local {
		if manifest, err = localize(info, cfg.Serve.ListenAddr); err != nil {
			return failf(stderr, "%v", err)
		}
	}
	out, err := writeManifest(cfg.Build.OutputDir, manifest)
	if err != nil {
		return failf(stderr, "write manifest: %v", err)
	}
	fmt.Fprintf(stdout, "generated %s\n", out)

	//
	// ── 4.  Optional catalog ────────────────────────────────────────────
	//
	if cfg.Catalog.Enabled {
		rec, err := record(ctx, cfg.Catalog.DSN, info)
		if err != nil {
			return failf(stderr, "catalog: %v", err)
		}
		log.Infow("catalog updated", "id", rec.ID, "url", rec.URL, "updated_at", rec.UpdatedAt)
	}

	if !serve {
		return 0
	}

	//
	// ── 5.  Dev server with token renewal alongside ─────────────────────
	//
	reloader := project.NewReloader(path, v, reloaderCapacity)
	reloader.OnLoad = func(siteinfo.SiteInfo) { reloadSettings(ctx, log) }
	srv := server.New(cfg.Serve.ListenAddr, server.Router(server.Options{
		Site:      reloader,
		OutputDir: cfg.Build.OutputDir,
	}))
	fmt.Fprintf(stdout, "serving %s on http://%s/\n", cfg.Build.OutputDir, cfg.Serve.ListenAddr)

	vault.StartRenewal(ctx)
	if err := server.Run(ctx, srv); err != nil {
		return failf(stderr, "serve: %v", err)
	}
	return 0
}

// localize points the manifest URL at the dev server.
func localize(info siteinfo.SiteInfo, addr string) (siteinfo.SiteInfo, error) {
	u, err := validated.NewURL("http://" + addr + "/")
	if err != nil {
		return info, err
	}
	info.URL = u
	return info, nil
}

func writeManifest(dir string, info siteinfo.SiteInfo) (string, error) {
	body, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ManifestName)
	return path, os.WriteFile(path, append(body, '\n'), 0o644)
}

// reloadSettings re-reads operational settings after the project file
// changed.  A bad edit keeps the previous settings.
func reloadSettings(ctx context.Context, log *zap.SugaredLogger) {
	if err := config.Reload(ctx); err != nil {
		log.Warnw("settings reload failed, keeping previous", "err", err)
		return
	}
	cfg := config.Get()
	log.Infow("settings reloaded",
		"output_dir", cfg.Build.OutputDir,
		"listen_addr", cfg.Serve.ListenAddr,
	)
}

// record upserts info and returns the stored row.
func record(ctx context.Context, dsn string, info siteinfo.SiteInfo) (*catalog.Record, error) {
	db, err := database.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return upsertAndFetch(ctx, catalog.NewStore(db), info)
}

func upsertAndFetch(ctx context.Context, store *catalog.Store, info siteinfo.SiteInfo) (*catalog.Record, error) {
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := store.Upsert(ctx, info); err != nil {
		return nil, err
	}
	return store.ByURL(ctx, info.URL.String())
}
