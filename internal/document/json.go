// internal/document/json.go
//
// JSON front end built on github.com/goccy/go-json.
//
// The decoder runs in token mode so object members keep their order and
// repeated member names survive into the tree.  Numbers without a
// fraction or exponent become Int; everything else numeric becomes Real.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// ParseJSON parses exactly one JSON value from data.
func ParseJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyDocument
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Value{}, jsonErr(err)
	}
	v, err := decodeToken(dec, tok, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, &ParseError{Format: "json", Msg: "trailing data after top-level value"}
	}
	return v, nil
}

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, &ParseError{Format: "json", Msg: fmt.Sprintf("nesting exceeds %d levels", maxDepth)}
	}
	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return fromNumber(t)
	case float64:
		return RealValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
		return Value{}, &ParseError{Format: "json", Msg: fmt.Sprintf("unexpected delimiter %q", rune(t))}
	default:
		return Value{}, &ParseError{Format: "json", Msg: fmt.Sprintf("unexpected token %T", tok)}
	}
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	var entries []Entry
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, jsonErr(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return Value{kind: Mapping, entries: entries}, nil
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, &ParseError{Format: "json", Msg: fmt.Sprintf("object key must be a string, got %T", tok)}
		}
		vtok, err := dec.Token()
		if err != nil {
			return Value{}, jsonErr(err)
		}
		v, err := decodeToken(dec, vtok, depth+1)
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Pair(key, v))
	}
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	var items []Value
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, jsonErr(err)
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Value{kind: Sequence, items: items}, nil
		}
		v, err := decodeToken(dec, tok, depth+1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
}

func fromNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, &ParseError{Format: "json", Msg: fmt.Sprintf("bad number %q", s), Err: err}
	}
	return RealValue(f), nil
}

func jsonErr(err error) error {
	if errors.Is(err, io.EOF) {
		return &ParseError{Format: "json", Msg: "unexpected end of input", Err: err}
	}
	return &ParseError{Format: "json", Msg: err.Error(), Err: err}
}
