// internal/validated/url.go
//
// Well-formed absolute URLs.
//
// Context
// -------
// `URL` can only be obtained from `NewURL`, which runs the raw string
// through go-playground/validator's `url` rule and then insists on an
// absolute URL with a host.  The site validator delegates the `url` field
// here and passes any `*Error` back to its caller unchanged.
//
// Notes
// -----
//   - The validator instance is a package-level singleton; it is safe for
//     concurrent use.
//   - Oxford commas, two spaces after periods.
package validated

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// URL is a URL that passed NewURL.  The zero value is not valid.
type URL struct {
	raw    string
	parsed *url.URL
}

// Error reports a rejected URL string.
type Error struct {
	Raw    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.Raw, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// NewURL validates raw and returns it as a URL.
func NewURL(raw string) (URL, error) {
	if err := v.Var(raw, "required,url"); err != nil {
		return URL{}, &Error{Raw: raw, Reason: "not a well-formed URL", Err: err}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return URL{}, &Error{Raw: raw, Reason: "cannot parse", Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return URL{}, &Error{Raw: raw, Reason: "must be absolute with a host"}
	}
	return URL{raw: raw, parsed: u}, nil
}

// String returns the URL exactly as written in the document.
func (u URL) String() string { return u.raw }

// Host returns the host (and port, if any).
func (u URL) Host() string {
	if u.parsed == nil {
		return ""
	}
	return u.parsed.Host
}

// Scheme returns the lower-cased scheme.
func (u URL) Scheme() string {
	if u.parsed == nil {
		return ""
	}
	return u.parsed.Scheme
}

// Valid reports whether u came from NewURL.
func (u URL) Valid() bool { return u.parsed != nil }

// URL returns a copy of the parsed URL.
func (u URL) URL() *url.URL {
	if u.parsed == nil {
		return nil
	}
	cp := *u.parsed
	return &cp
}
