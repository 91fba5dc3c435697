// internal/siteinfo/metadata.go
//
// Metadata collection.
//
// Context
// -------
// `metadata` is an optional mapping of string keys to scalars (string,
// boolean, integer, or real).  `collectMetadata` walks it in document
// order and stops at the first bad entry:
//
//  1. a non-string key fails as WrongFieldType on "key of mapping",
//  2. a sequence, mapping, or null value fails as WrongFieldType on that
//     key,
//  3. a key seen before fails as DuplicateKey with both values.
//
// Notes
// -----
//   - Absent or null `metadata` yields an empty, non-nil map.
//   - Oxford commas, two spaces after periods.
package siteinfo

import "github.com/igxactly-forks/lightning/internal/document"

const (
	keyOfMapping   = "key of mapping"
	scalarExpected = "string, boolean, or integer"
)

// collectMetadata builds the metadata map from the optional mapping under
// key.  It stops at the first bad entry.
func collectMetadata(m document.Value, key string) (map[string]Scalar, error) {
	out := make(map[string]Scalar)

	v, ok := lookup(m, key)
	if !ok {
		return out, nil
	}
	if v.Kind() != document.Mapping {
		return nil, wrongType(key, false, m, "mapping")
	}

	for _, e := range v.Entries() {
		k, ok := e.Key.AsString()
		if !ok {
			return nil, wrongType(keyOfMapping, false, v, "string")
		}
		val, ok := toScalar(e.Value)
		if !ok {
			return nil, wrongType(k, false, v, scalarExpected)
		}
		if prev, dup := out[k]; dup {
			return nil, duplicateKey(k, prev, val)
		}
		out[k] = val
	}
	return out, nil
}
