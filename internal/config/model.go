// internal/config/model.go
//
// Typed tool settings for lx.
//
// Context
// -------
// These structs describe the operational sections of `lightning.yaml`
// that `internal/config/loader.go` reads through Koanf:
//
//   • `build`   – where content lives and where output goes,
//   • `log`     – level and directory of the JSON log,
//   • `serve`   – dev-server listen address,
//   • `catalog` – optional MySQL catalog of validated sites.
//
// The `site_info` section is NOT part of this model.  It goes through the
// strict document validator in `internal/siteinfo`, which keeps duplicate
// keys and reports the offending block; Koanf would flatten it.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • `Paths` is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

//
// Build section
//

// Build holds content and output locations, relative to the project root
// unless absolute.
type Build struct {
	ContentDir string `koanf:"content_dir" validate:"required"`
	OutputDir  string `koanf:"output_dir"  validate:"required"`
}

//
// Log section
//

// Log holds logger tunables.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Serve section
//

// Serve holds dev-server tunables.
type Serve struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Catalog section
//

// Catalog points at the optional site catalog.  The DSN may be written as
// `vault:<mount>/<path>#<key>` so credentials stay out of the file.
type Catalog struct {
	Enabled bool   `koanf:"enabled"`
	DSN     string `koanf:"dsn" validate:"required_if=Enabled true"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LX_ROOT or discovered project directory
	File string // absolute path of lightning.yaml
}

//
// Root aggregate
//

// Settings is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Settings struct {
	Build   Build   `koanf:"build"`
	Log     Log     `koanf:"log"`
	Serve   Serve   `koanf:"serve"`
	Catalog Catalog `koanf:"catalog"`
	Paths   Paths   `koanf:"-"`
}

// Defaults returns the settings used for any key the file and env leave
// unset.
func Defaults() Settings {
	return Settings{
		Build: Build{ContentDir: "content", OutputDir: "public"},
		Log:   Log{Level: "info", Dir: "logs"},
		Serve: Serve{ListenAddr: "127.0.0.1:8080"},
	}
}
