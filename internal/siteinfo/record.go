// internal/siteinfo/record.go
//
// Validated site identity.
//
// Context
// -------
// `SiteInfo` is the only thing downstream code (generator, scaffolder,
// dev server, catalog) ever sees of the `site_info` section.  It is built
// once by `Validator.Validate` and never mutated; a changed config file is
// validated again into a brand-new value.
//
// Notes
// -----
//   - Callers must treat the Metadata map as read-only.
//   - Oxford commas, two spaces after periods.
package siteinfo

import (
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/igxactly-forks/lightning/internal/timezone"
	"github.com/igxactly-forks/lightning/internal/validated"
)

// SiteInfo is the validated `site_info` section.
type SiteInfo struct {
	// Title is the name of the site.  Required.
	Title string

	// URL is the canonical URL for the root of the site.  Required.
	URL validated.URL

	// DefaultTimezone applies to posts that carry no zone of their own.
	DefaultTimezone timezone.ID

	// Description is nil when the document has none.
	Description *string

	// Metadata holds arbitrary scalar values.  Never nil.
	Metadata map[string]Scalar
}

// HasDescription reports whether a description was given.
func (s SiteInfo) HasDescription() bool { return s.Description != nil }

// DescriptionOr returns the description or def when absent.
func (s SiteInfo) DescriptionOr(def string) string {
	if s.Description == nil {
		return def
	}
	return *s.Description
}

type siteInfoJSON struct {
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	DefaultTimezone string            `json:"default_timezone"`
	Description     *string           `json:"description,omitempty"`
	Metadata        map[string]Scalar `json:"metadata"`
}

// MarshalJSON renders the record for manifests and the dev server.
func (s SiteInfo) MarshalJSON() ([]byte, error) {
	md := s.Metadata
	if md == nil {
		md = map[string]Scalar{}
	}
	return json.Marshal(siteInfoJSON{
		Title:           s.Title,
		URL:             s.URL.String(),
		DefaultTimezone: s.DefaultTimezone.Name(),
		Description:     s.Description,
		Metadata:        md,
	})
}

/*──────────────────────────── Scalar ──────────────────────────────────────*/

// ScalarKind names the variant held by a Scalar.
type ScalarKind int

const (
	StringScalar ScalarKind = iota + 1
	BoolScalar
	IntScalar
	RealScalar
)

func (k ScalarKind) String() string {
	switch k {
	case StringScalar:
		return "string"
	case BoolScalar:
		return "boolean"
	case IntScalar:
		return "integer"
	case RealScalar:
		return "real"
	default:
		return "invalid"
	}
}

// Scalar is one metadata value: a string, boolean, integer, or real.
type Scalar struct {
	kind ScalarKind
	s    string
	b    bool
	i    int64
	f    float64
}

func String(s string) Scalar { return Scalar{kind: StringScalar, s: s} }
func Bool(b bool) Scalar     { return Scalar{kind: BoolScalar, b: b} }
func Int(i int64) Scalar     { return Scalar{kind: IntScalar, i: i} }
func Real(f float64) Scalar  { return Scalar{kind: RealScalar, f: f} }

func (v Scalar) Kind() ScalarKind { return v.kind }

func (v Scalar) AsString() (string, bool) { return v.s, v.kind == StringScalar }
func (v Scalar) AsBool() (bool, bool)     { return v.b, v.kind == BoolScalar }
func (v Scalar) AsInt() (int64, bool)     { return v.i, v.kind == IntScalar }
func (v Scalar) AsReal() (float64, bool)  { return v.f, v.kind == RealScalar }

// Native returns the Go value held by v.
func (v Scalar) Native() any {
	switch v.kind {
	case StringScalar:
		return v.s
	case BoolScalar:
		return v.b
	case IntScalar:
		return v.i
	case RealScalar:
		return v.f
	default:
		return nil
	}
}

// String renders v the way a diagnostic shows it: strings quoted.
func (v Scalar) String() string {
	switch v.kind {
	case StringScalar:
		return strconv.Quote(v.s)
	case BoolScalar:
		return strconv.FormatBool(v.b)
	case IntScalar:
		return strconv.FormatInt(v.i, 10)
	case RealScalar:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes v as its native JSON type.  JSON has no NaN or
// infinities, so those reals are written as the YAML spellings ".nan",
// ".inf", and "-.inf".
func (v Scalar) MarshalJSON() ([]byte, error) {
	if v.kind == 0 {
		return nil, fmt.Errorf("siteinfo: marshal of zero Scalar")
	}
	if v.kind == RealScalar {
		switch {
		case math.IsNaN(v.f):
			return json.Marshal(".nan")
		case math.IsInf(v.f, 1):
			return json.Marshal(".inf")
		case math.IsInf(v.f, -1):
			return json.Marshal("-.inf")
		}
	}
	return json.Marshal(v.Native())
}
