// internal/document/value.go
//
// Immutable document tree handed to the site validator.
//
// Context
// -------
// The markup parsers (`ParseYAML`, `ParseJSON`) turn raw bytes into a
// `Value`.  A `Value` is a closed tagged variant: exactly one of null,
// boolean, integer, real, string, sequence, or mapping.  Mapping keys are
// themselves `Value`s, entries keep source order, and duplicate keys are
// preserved so the validator can reject them instead of silently
// overwriting.
//
// Notes
// -----
//   - The zero `Value` is null.
//   - Constructors copy their slice arguments and accessors return copies,
//     so a `Value` never changes after it is built.
//   - Oxford commas, two spaces after periods.
package document

import (
	"strconv"
	"strings"
)

// Kind names the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Real
	String
	Sequence
	Mapping
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of a parsed document.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	items   []Value
	entries []Entry
}

// Entry is one key/value pair of a mapping node.
type Entry struct {
	Key   Value
	Value Value
}

/*──────────────────────────── constructors ────────────────────────────────*/

func NullValue() Value               { return Value{} }
func BoolValue(b bool) Value         { return Value{kind: Bool, b: b} }
func IntValue(i int64) Value         { return Value{kind: Int, i: i} }
func RealValue(f float64) Value      { return Value{kind: Real, f: f} }
func StringValue(s string) Value     { return Value{kind: String, s: s} }
func Pair(key string, v Value) Entry { return Entry{Key: StringValue(key), Value: v} }

// SequenceOf builds a sequence node from items.
func SequenceOf(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: Sequence, items: cp}
}

// MappingOf builds a mapping node.  Entries keep the given order and
// duplicate keys are kept as-is.
func MappingOf(entries ...Entry) Value {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return Value{kind: Mapping, entries: cp}
}

/*──────────────────────────── accessors ───────────────────────────────────*/

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == Bool }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == Int }
func (v Value) AsReal() (float64, bool)  { return v.f, v.kind == Real }
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// Items returns a copy of a sequence's elements, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != Sequence {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Entries returns a copy of a mapping's entries in source order, or nil
// for other kinds.
func (v Value) Entries() []Entry {
	if v.kind != Mapping {
		return nil
	}
	cp := make([]Entry, len(v.entries))
	copy(cp, v.entries)
	return cp
}

// Len reports the number of items or entries; scalars report zero.
func (v Value) Len() int {
	switch v.kind {
	case Sequence:
		return len(v.items)
	case Mapping:
		return len(v.entries)
	default:
		return 0
	}
}

// Get returns the value of the first entry whose key is the string key.
// Non-mapping values never match.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Mapping {
		return Value{}, false
	}
	for _, e := range v.entries {
		if s, ok := e.Key.AsString(); ok && s == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality.  Mapping entries compare in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Int:
		return v.i == o.i
	case Real:
		return v.f == o.f
	case String:
		return v.s == o.s
	case Sequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case Mapping:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(o.entries[i].Key) || !v.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

/*──────────────────────────── debug rendering ─────────────────────────────*/

// Dump renders v on one line in a YAML flow-like form, e.g.
// `{title: "lx", tags: [1, 2.5], draft: ~}`.  Diagnostics embed it so an
// author can find the offending block.
func (v Value) Dump() string {
	var b strings.Builder
	v.dump(&b)
	return b.String()
}

func (v Value) String() string { return v.Dump() }

func (v Value) dump(b *strings.Builder) {
	switch v.kind {
	case Null:
		b.WriteString("~")
	case Bool:
		b.WriteString(strconv.FormatBool(v.b))
	case Int:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case Real:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case String:
		b.WriteString(strconv.Quote(v.s))
	case Sequence:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.dump(b)
		}
		b.WriteByte(']')
	case Mapping:
		b.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				b.WriteString(", ")
			}
			if s, ok := e.Key.AsString(); ok && isPlainKey(s) {
				b.WriteString(s)
			} else {
				e.Key.dump(b)
			}
			b.WriteString(": ")
			e.Value.dump(b)
		}
		b.WriteByte('}')
	}
}

// isPlainKey reports whether s can be printed without quotes.
func isPlainKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
