// internal/siteinfo/errors.go
//
// Diagnostics for the site_info validator.
//
// Context
// -------
// Every failure the validator itself detects is an `*Error` carrying a
// `Kind`.  Failures raised by the delegated URL and timezone checks are
// returned untouched (`*validated.Error`, `*timezone.Error`), so callers
// match those with `errors.As` on the collaborator's type.
//
// Each Kind unwraps to a sentinel so `errors.Is(err, ErrMissingField)`
// works without a type assertion.
//
// Message shapes
// --------------
//
//	required key "url" is missing or null in: {title: "lx"}
//	required key "title" must be a string, in: {title: 3, ...}
//	optional key "foo" must be a string, boolean, or integer, in: {foo: [1, 2]}
//	duplicate key "foo": first "bar", then 2
package siteinfo

import (
	"errors"
	"fmt"

	"github.com/igxactly-forks/lightning/internal/document"
	"github.com/igxactly-forks/lightning/internal/timezone"
	"github.com/igxactly-forks/lightning/internal/validated"
)

// Kind classifies an Error.
type Kind int

const (
	MissingRequiredField Kind = iota + 1
	WrongFieldType
	DuplicateKey
)

func (k Kind) String() string {
	switch k {
	case MissingRequiredField:
		return "missing_required_field"
	case WrongFieldType:
		return "wrong_field_type"
	case DuplicateKey:
		return "duplicate_key"
	default:
		return "unknown"
	}
}

var (
	ErrMissingField = errors.New("missing required field")
	ErrWrongType    = errors.New("wrong field type")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Error is a single validation diagnostic.
type Error struct {
	Kind      Kind
	Key       string
	Required  bool
	Expected  string         // WrongFieldType only
	Container document.Value // mapping that holds Key
	First     Scalar         // DuplicateKey only
	Second    Scalar         // DuplicateKey only
}

func (e *Error) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("required key %q is missing or null in: %s", e.Key, e.Container.Dump())
	case WrongFieldType:
		return fmt.Sprintf("%s key %q must be a %s, in: %s", requiredness(e.Required), e.Key, e.Expected, e.Container.Dump())
	case DuplicateKey:
		return fmt.Sprintf("duplicate key %q: first %s, then %s", e.Key, e.First, e.Second)
	default:
		return fmt.Sprintf("invalid key %q", e.Key)
	}
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case MissingRequiredField:
		return ErrMissingField
	case WrongFieldType:
		return ErrWrongType
	case DuplicateKey:
		return ErrDuplicateKey
	default:
		return nil
	}
}

func requiredness(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}

/*──────────────────────────── constructors ────────────────────────────────*/

func missingField(key string, container document.Value) *Error {
	return &Error{Kind: MissingRequiredField, Key: key, Required: true, Container: container}
}

func wrongType(key string, required bool, container document.Value, expected string) *Error {
	return &Error{Kind: WrongFieldType, Key: key, Required: required, Container: container, Expected: expected}
}

func duplicateKey(key string, first, second Scalar) *Error {
	return &Error{Kind: DuplicateKey, Key: key, First: first, Second: second}
}

/*──────────────────────────── classification ──────────────────────────────*/

// KindOf returns a stable label for err, suitable for metrics:
// one of the Kind strings, "invalid_url", "unknown_timezone", or "other".
func KindOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind.String()
	}
	var ue *validated.Error
	if errors.As(err, &ue) {
		return "invalid_url"
	}
	var te *timezone.Error
	if errors.As(err, &te) {
		return "unknown_timezone"
	}
	return "other"
}

// IsDelegated reports whether err came from the URL or timezone check.
func IsDelegated(err error) bool {
	var ue *validated.Error
	var te *timezone.Error
	return errors.As(err, &ue) || errors.As(err, &te)
}
