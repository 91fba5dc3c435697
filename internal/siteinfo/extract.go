// internal/siteinfo/extract.go
//
// Field extraction from a site_info mapping.
//
// Context
// -------
// The validator reads each top-level field through one of two helpers:
//
//   - `requiredString` fails with MissingRequiredField when the key is
//     absent or null, and with WrongFieldType when it is not a string.
//   - `optionalString` returns nil for an absent or null key and fails
//     with WrongFieldType otherwise.
//
// Notes
// -----
//   - An explicit null is treated exactly like a missing key.
//   - When a key repeats at the top level, the first entry wins.
//   - Oxford commas, two spaces after periods.
package siteinfo

import "github.com/igxactly-forks/lightning/internal/document"

// lookup returns the value under key, treating an absent key and an
// explicit null the same way.
func lookup(m document.Value, key string) (document.Value, bool) {
	v, ok := m.Get(key)
	if !ok || v.IsNull() {
		return document.Value{}, false
	}
	return v, true
}

// requiredString extracts a string that must be present.
func requiredString(m document.Value, key string) (string, error) {
	v, ok := lookup(m, key)
	if !ok {
		return "", missingField(key, m)
	}
	s, ok := v.AsString()
	if !ok {
		return "", wrongType(key, true, m, "string")
	}
	return s, nil
}

// optionalString extracts a string that may be absent.  A nil result
// means absent.
func optionalString(m document.Value, key string) (*string, error) {
	v, ok := lookup(m, key)
	if !ok {
		return nil, nil
	}
	s, ok := v.AsString()
	if !ok {
		return nil, wrongType(key, false, m, "string")
	}
	return &s, nil
}

// toScalar coerces a metadata value.  Null, sequences, and mappings are
// not scalars.
func toScalar(v document.Value) (Scalar, bool) {
	switch v.Kind() {
	case document.String:
		s, _ := v.AsString()
		return String(s), true
	case document.Bool:
		b, _ := v.AsBool()
		return Bool(b), true
	case document.Int:
		i, _ := v.AsInt()
		return Int(i), true
	case document.Real:
		f, _ := v.AsReal()
		return Real(f), true
	case document.Null, document.Sequence, document.Mapping:
		return Scalar{}, false
	default:
		return Scalar{}, false
	}
}
