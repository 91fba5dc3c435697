// internal/secrets/vault.go
//
// Vault-backed resolver for `vault:` setting values.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK behind the small `config.SecretResolver`
//     contract: a reference such as `secret/lx#dsn` names a KV-v2 mount and
//     path (`secret`, `lx`) plus a key (`dsn`).
//   - Adds per-key caching and an optional background token-renewal loop for
//     the long-running dev server.
//   - The Vault client is only built on the first Resolve, so commands whose
//     settings carry no `vault:` values never need VAULT_ADDR.
//
// Public workflow
// ---------------
//  1. r := secrets.NewVault(log)                       // during boot.
//  2. cfg, err := config.Load(ctx, config.Options{…, Secrets: r})
//  3. r.StartRenewal(ctx)                              // serve mode only.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// DefaultTTL is how long a resolved secret stays cached.
const DefaultTTL = 5 * time.Minute

// ErrBadReference is returned for references without a `#key` part.
var ErrBadReference = errors.New("secrets: reference must look like <mount>/<path>#<key>")

//
// SECTION 1.  Public façade
//

// KVReader reads one KV-v2 secret.  *vault.Client satisfies it through
// apiReader; tests substitute a map.
type KVReader interface {
	ReadKV(ctx context.Context, mount, path string) (map[string]any, error)
}

// Vault is safe for concurrent use.  Zero value is invalid.
type Vault struct {
	log *zap.SugaredLogger
	ttl time.Duration

	initOnce sync.Once
	initErr  error
	reader   KVReader
	api      *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// NewVault returns a resolver that connects lazily using VAULT_ADDR and
// VAULT_TOKEN.
func NewVault(log *zap.SugaredLogger) *Vault {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Vault{log: log, ttl: DefaultTTL, cache: make(map[string]cached)}
}

// NewWithReader returns a resolver over an existing KVReader.
func NewWithReader(r KVReader, ttl time.Duration) *Vault {
	v := NewVault(nil)
	v.reader = r
	v.ttl = ttl
	v.initOnce.Do(func() {})
	return v
}

// Resolve implements config.SecretResolver.
func (v *Vault) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return v.GetKV(ctx, path, key)
}

// GetKV fetches a single key from a KV-v2 secret, serving repeats from
// the cache until the TTL expires.
func (v *Vault) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", ErrBadReference
	}
	canonical := secretPath + "#" + key

	if v.ttl > 0 {
		v.cacheMu.RLock()
		if cv, ok := v.cache[canonical]; ok && time.Now().Before(cv.exp) {
			v.cacheMu.RUnlock()
			return cv.val, nil
		}
		v.cacheMu.RUnlock()
	}

	if err := v.connect(); err != nil {
		return "", err
	}

	mount, rel := splitMount(secretPath)
	data, err := v.reader.ReadKV(ctx, mount, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	if v.ttl > 0 {
		v.cacheMu.Lock()
		v.cache[canonical] = cached{val: sval, exp: time.Now().Add(v.ttl)}
		v.cacheMu.Unlock()
	}
	v.log.Debugw("vault secret read", "path", secretPath, "key", key)
	return sval, nil
}

func (v *Vault) connect() error {
	v.initOnce.Do(func() {
		cfg := vault.DefaultConfig()
		if err := cfg.ReadEnvironment(); err != nil {
			v.initErr = fmt.Errorf("vault env cfg: %w", err)
			return
		}
		apiCli, err := vault.NewClient(cfg)
		if err != nil {
			v.initErr = fmt.Errorf("vault api: %w", err)
			return
		}
		if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
			apiCli.SetToken(tok)
		}
		v.api = apiCli
		v.reader = apiReader{apiCli}
	})
	return v.initErr
}

type apiReader struct{ c *vault.Client }

func (a apiReader) ReadKV(ctx context.Context, mount, path string) (map[string]any, error) {
	sec, err := a.c.KVv2(mount).Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return sec.Data, nil
}

//
// SECTION 2.  Background token renewal
//

// StartRenewal keeps the token alive until ctx ends.  It is a no-op when
// no Vault connection was ever made.
func (v *Vault) StartRenewal(ctx context.Context) {
	if v.api == nil {
		return
	}
	go v.renewLoop(ctx)
}

func (v *Vault) renewLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		sec, err := v.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			v.log.Warnw("vault token renew failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			v.log.Infow("vault token is not renewable, sleeping", "for", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := v.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
			Grace:  15 * time.Second,
		})
		if err != nil {
			v.log.Warnw("vault watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		go watcher.Start()
		v.watch(ctx, watcher)
		backoff(ctx, 15*time.Second)
	}
}

func (v *Vault) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				v.log.Warnw("vault token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				v.log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

// ParseRef splits `secret/lx#dsn` into ("secret/lx", "dsn").
func ParseRef(ref string) (path, key string, err error) {
	i := strings.LastIndexByte(ref, '#')
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrBadReference, ref)
	}
	return ref[:i], ref[i+1:], nil
}

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
