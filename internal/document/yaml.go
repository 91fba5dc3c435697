// internal/document/yaml.go
//
// YAML front end built on gopkg.in/yaml.v3.
//
// Context
// -------
// Decoding into `yaml.Node` (rather than into Go maps) keeps mapping
// order and, importantly, keeps duplicate keys.  The node walk below maps
// resolved scalar tags onto the closed `Value` variant:
//
//	!!null → Null      !!bool  → Bool     !!int → Int (int64)
//	!!float → Real     !!str   → String   anything else → String (raw text)
//
// Aliases are expanded in place, within a budget of expandedPerNode nodes
// per node present in the source (never less than minExpansion), so
// nested anchors cannot blow a small file up into a huge tree.  Only the
// first document of a stream is read.
package document

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxDepth bounds nesting for both front ends.
const maxDepth = 512

// Alias expansion budget, see countNodes.
const (
	expandedPerNode = 10
	minExpansion    = 10_000
)

// ErrEmptyDocument is returned when the input holds no document at all.
var ErrEmptyDocument = errors.New("document: empty input")

// ParseError reports markup the front end could not turn into a Value.
type ParseError struct {
	Format string // "yaml" or "json"
	Line   int    // 1-based; zero when unknown
	Column int    // 1-based; zero when unknown
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d column %d: %s", e.Format, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseYAML parses the first YAML document in data.
func ParseYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, &ParseError{Format: "yaml", Msg: err.Error(), Err: err}
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return Value{}, ErrEmptyDocument
	}
	return FromYAMLNode(&root)
}

// FromYAMLNode converts an already-parsed node tree.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	w := &yamlWalker{budget: max(countNodes(n, 0)*expandedPerNode, minExpansion)}
	return w.fromNode(n, 0)
}

// countNodes counts the nodes written in the source.  Aliases count once
// and are not followed.
func countNodes(n *yaml.Node, depth int) int {
	if depth > maxDepth {
		return 1
	}
	c := 1
	for _, child := range n.Content {
		c += countNodes(child, depth+1)
	}
	return c
}

// yamlWalker converts nodes while charging each visit to budget.
type yamlWalker struct {
	budget int
	used   int
}

func (w *yamlWalker) fromNode(n *yaml.Node, depth int) (Value, error) {
	if w.used++; w.used > w.budget {
		return Value{}, nodeErr(n, "aliases expand the document beyond %d nodes", w.budget)
	}
	if depth > maxDepth {
		return Value{}, nodeErr(n, "nesting exceeds %d levels", maxDepth)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NullValue(), nil
		}
		return w.fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, nodeErr(n, "unresolved alias %q", n.Value)
		}
		return w.fromNode(n.Alias, depth+1)
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := w.fromNode(n.Content[i], depth+1)
			if err != nil {
				return Value{}, err
			}
			v, err := w.fromNode(n.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: k, Value: v})
		}
		return Value{kind: Mapping, entries: entries}, nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.fromNode(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: Sequence, items: items}, nil
	case yaml.ScalarNode:
		return fromScalar(n)
	default:
		return Value{}, nodeErr(n, "unsupported node kind %d", n.Kind)
	}
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, nodeErr(n, "bad boolean %q", n.Value)
		}
		return BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, nodeErr(n, "integer %q out of range", n.Value)
		}
		return IntValue(i), nil
	case "!!float":
		return fromFloat(n)
	default:
		return StringValue(n.Value), nil
	}
}

func fromFloat(n *yaml.Node) (Value, error) {
	switch strings.ToLower(n.Value) {
	case ".inf", "+.inf":
		return RealValue(math.Inf(1)), nil
	case "-.inf":
		return RealValue(math.Inf(-1)), nil
	case ".nan":
		return RealValue(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
	if err != nil {
		var f2 float64
		if derr := n.Decode(&f2); derr != nil {
			return Value{}, nodeErr(n, "bad real %q", n.Value)
		}
		f = f2
	}
	return RealValue(f), nil
}

func nodeErr(n *yaml.Node, format string, args ...any) error {
	return &ParseError{Format: "yaml", Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}
