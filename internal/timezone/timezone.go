// internal/timezone/timezone.go
//
// Timezone name registry.
//
// Context
// -------
// Site configs name their default timezone with a human string, e.g.
// `America/New_York`, `UTC`, or the legacy `Eastern`.  A `Registry` turns
// that string into exactly one canonical `ID`.  The default registry
// checks a small alias table first and then the IANA database embedded
// via `time/tzdata`, so lookups do not depend on the host's zoneinfo.
//
// Rules
// -----
//  1. Lookups are case-sensitive (`eastern` is unknown).
//  2. The empty string and `Local` are rejected; a site must name a zone.
//  3. Aliases resolve to their IANA target, so `Eastern` and
//     `America/New_York` yield equal IDs.
//
// Notes
// -----
//   - Locations are cached per registry, so two resolutions of the same
//     name share one *time.Location.
//   - Oxford commas, two spaces after periods.
package timezone

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // embedded IANA database
)

// ID is a canonical timezone identifier.  The zero value is not valid.
type ID struct {
	name string
	loc  *time.Location
}

// Name returns the canonical IANA name.
func (id ID) Name() string { return id.name }

// String implements fmt.Stringer.
func (id ID) String() string { return id.name }

// Location returns the zone rules for id.
func (id ID) Location() *time.Location { return id.loc }

// Valid reports whether id came from a Registry.
func (id ID) Valid() bool { return id.loc != nil }

// Error reports an unknown timezone name.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("unknown timezone %q", e.Name)
}

func (e *Error) Unwrap() error { return e.Err }

// Registry resolves timezone names.
type Registry interface {
	Resolve(name string) (ID, error)
}

// Aliases maps legacy and abbreviated names onto IANA names.
var Aliases = map[string]string{
	"Eastern":  "America/New_York",
	"Central":  "America/Chicago",
	"Mountain": "America/Denver",
	"Pacific":  "America/Los_Angeles",
	"Alaska":   "America/Anchorage",
	"Hawaii":   "Pacific/Honolulu",
	"Arizona":  "America/Phoenix",
	"EDT":      "America/New_York",
	"CST":      "America/Chicago",
	"CDT":      "America/Chicago",
	"MDT":      "America/Denver",
	"PST":      "America/Los_Angeles",
	"PDT":      "America/Los_Angeles",
	"AKST":     "America/Anchorage",
	"AKDT":     "America/Anchorage",
	"BST":      "Europe/London",
	"IST":      "Asia/Kolkata",
	"JST":      "Asia/Tokyo",
	"AEST":     "Australia/Sydney",
	"Z":        "UTC",
	"Zulu":     "UTC",
}

// IANA is a Registry backed by the IANA database plus an alias table.
type IANA struct {
	aliases map[string]string

	mu    sync.Mutex
	cache map[string]*time.Location
}

// New returns a registry using aliases (nil means no aliases).
func New(aliases map[string]string) *IANA {
	cp := make(map[string]string, len(aliases))
	for k, v := range aliases {
		cp[k] = v
	}
	return &IANA{aliases: cp, cache: make(map[string]*time.Location)}
}

var (
	defaultOnce sync.Once
	defaultReg  *IANA
)

// Default returns the shared registry built from Aliases.
func Default() *IANA {
	defaultOnce.Do(func() { defaultReg = New(Aliases) })
	return defaultReg
}

// Resolve implements Registry.
func (r *IANA) Resolve(name string) (ID, error) {
	if name == "" || name == "Local" {
		return ID{}, &Error{Name: name}
	}
	canonical := name
	if target, ok := r.aliases[name]; ok {
		canonical = target
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if loc, ok := r.cache[canonical]; ok {
		return ID{name: canonical, loc: loc}, nil
	}
	loc, err := time.LoadLocation(canonical)
	if err != nil {
		return ID{}, &Error{Name: name, Err: err}
	}
	r.cache[canonical] = loc
	return ID{name: canonical, loc: loc}, nil
}

// Func adapts a plain function to Registry.
type Func func(name string) (ID, error)

// Resolve implements Registry.
func (f Func) Resolve(name string) (ID, error) { return f(name) }

// Fixed builds an ID from a name and location.  Registries other than
// IANA use it to mint IDs.
func Fixed(name string, loc *time.Location) ID { return ID{name: name, loc: loc} }
