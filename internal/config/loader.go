// internal/config/loader.go
//
// Settings loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Settings` struct from four layers (highest
precedence last):

  1. `Defaults()`.
  2. Optional `.env` file next to the project file.
  3. The project file itself (`lightning.yaml`), operational sections only.
  4. Environment variables prefixed `LX_`, where `__` maps to “.”
     (e.g., `LX_SERVE__LISTEN_ADDR → serve.listen_addr`).

Any string value that begins with `vault:` is then resolved through the
supplied SecretResolver, the tree is unmarshalled into `Settings`,
validated, enriched with runtime paths, and cached in an `atomic.Pointer`
for lock-free reads.  `Reload()` runs `Load()` again with the last
options and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans: file read, env overlay, secret resolution.
  • ERROR spans: YAML parse, env overlay, secret, unmarshal, validation.
  • INFO  span : final “settings loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so problems surface
    even before the file logger is installed.

Notes
-----
  • Load must run after the site_info section has been validated: the
    Koanf YAML parser rejects duplicate keys anywhere in the file, and the
    site validator gives a better diagnostic for those.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "LX_"

// VaultPrefix marks values resolved through a SecretResolver.
const VaultPrefix = "vault:"

// ErrNoResolver is returned when a `vault:` value is present but Load was
// given no SecretResolver.
var ErrNoResolver = errors.New("config: vault reference without a secret resolver")

// SecretResolver turns a `vault:` reference (prefix stripped) into its
// secret value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Options controls Load.
type Options struct {
	File    string         // path to lightning.yaml; required
	Secrets SecretResolver // optional
}

var (
	current  atomic.Pointer[Settings]
	lastMu   sync.Mutex
	lastOpts Options
)

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads defaults, .env, the project file, env overrides, resolves
// secrets, validates, and caches Settings.
func Load(ctx context.Context, opts Options) (*Settings, error) {
	if opts.File == "" {
		return nil, errors.New("config: no project file given")
	}
	path, err := filepath.Abs(opts.File)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(path)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, ".env"))

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		zap.S().Errorw("settings yaml load failed", "file", path, "err", err)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	zap.S().Debugw("settings yaml loaded", "file", path)

	// Env overrides: LX_SERVE__LISTEN_ADDR → serve.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("settings env overlay failed", "err", err)
		return nil, err
	}
	zap.S().Debugw("settings env overlay applied", "prefix", EnvPrefix)

	if err := resolveSecrets(ctx, k, opts.Secrets); err != nil {
		zap.S().Errorw("settings secret resolution failed", "err", err)
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("settings unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths = Paths{Root: root, File: path}
	cfg.Build.ContentDir = cfg.Abs(cfg.Build.ContentDir)
	cfg.Build.OutputDir = cfg.Abs(cfg.Build.OutputDir)
	if cfg.Log.Dir != "" {
		cfg.Log.Dir = cfg.Abs(cfg.Log.Dir)
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("settings validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	lastMu.Lock()
	lastOpts = opts
	lastMu.Unlock()

	zap.S().Infow("settings loaded",
		"file", path,
		"output_dir", cfg.Build.OutputDir,
		"listen_addr", cfg.Serve.ListenAddr,
		"catalog", cfg.Catalog.Enabled,
	)
	return &cfg, nil
}

// envKey maps LX_SERVE__LISTEN_ADDR to serve.listen_addr.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// resolveSecrets replaces every `vault:` string in k.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, r SecretResolver) error {
	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !strings.HasPrefix(s, VaultPrefix) {
			continue
		}
		if r == nil {
			return fmt.Errorf("%s: %w", key, ErrNoResolver)
		}
		secret, err := r.Resolve(ctx, strings.TrimPrefix(s, VaultPrefix))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := k.Set(key, secret); err != nil {
			return err
		}
		zap.S().Debugw("settings secret resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Abs resolves p against the project root.
func (s *Settings) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Paths.Root, p)
}

func Get() *Settings { return current.Load() }

// Reload repeats the last successful Load.
func Reload(ctx context.Context) error {
	lastMu.Lock()
	opts := lastOpts
	lastMu.Unlock()
	if opts.File == "" {
		return errors.New("config: reload before load")
	}
	_, err := Load(ctx, opts)
	return err
}
