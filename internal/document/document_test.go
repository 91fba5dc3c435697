package document

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteYAML = `
site_info:
    title: lx (lightning)
    url: https://lightning.rs
    description: >
        A ridiculously fast site generator and engine.
    default_timezone: Eastern
    metadata:
        foo: bar
        quux: 2
        ratio: 0.5
        draft: false
        empty: ~
`

func TestParseYAMLScalarKinds(t *testing.T) {
	doc, err := ParseYAML([]byte(siteYAML))
	require.NoError(t, err)
	require.Equal(t, Mapping, doc.Kind())

	site, ok := doc.Get("site_info")
	require.True(t, ok)

	title, ok := site.Get("title")
	require.True(t, ok)
	s, ok := title.AsString()
	require.True(t, ok)
	assert.Equal(t, "lx (lightning)", s)

	desc, _ := site.Get("description")
	s, _ = desc.AsString()
	assert.Equal(t, "A ridiculously fast site generator and engine.\n", s)

	meta, _ := site.Get("metadata")
	require.Equal(t, 5, meta.Len())

	quux, _ := meta.Get("quux")
	i, ok := quux.AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 2, i)

	ratio, _ := meta.Get("ratio")
	f, ok := ratio.AsReal()
	require.True(t, ok)
	assert.Equal(t, 0.5, f)

	draft, _ := meta.Get("draft")
	b, ok := draft.AsBool()
	require.True(t, ok)
	assert.False(t, b)

	empty, ok := meta.Get("empty")
	require.True(t, ok)
	assert.True(t, empty.IsNull())
}

func TestParseYAMLKeepsDuplicateKeysInOrder(t *testing.T) {
	doc, err := ParseYAML([]byte("a: 1\nb: 2\na: 3\n"))
	require.NoError(t, err)

	entries := doc.Entries()
	require.Len(t, entries, 3)
	var keys []string
	for _, e := range entries {
		k, _ := e.Key.AsString()
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "a"}, keys)

	first, _ := doc.Get("a")
	assert.True(t, first.Equal(IntValue(1)))
}

func TestParseYAMLNonStringKeysAndAliases(t *testing.T) {
	doc, err := ParseYAML([]byte("base: &b [1, 2]\ncopy: *b\n7: seven\n"))
	require.NoError(t, err)

	cp, ok := doc.Get("copy")
	require.True(t, ok)
	assert.True(t, cp.Equal(SequenceOf(IntValue(1), IntValue(2))))

	entries := doc.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Int, entries[2].Key.Kind())
}

func TestParseYAMLSpecialFloats(t *testing.T) {
	doc, err := ParseYAML([]byte("a: .inf\nb: -.Inf\nc: .nan\nd: 1e3\n"))
	require.NoError(t, err)

	a, _ := doc.Get("a")
	f, _ := a.AsReal()
	assert.True(t, math.IsInf(f, 1))

	b, _ := doc.Get("b")
	f, _ = b.AsReal()
	assert.True(t, math.IsInf(f, -1))

	c, _ := doc.Get("c")
	f, _ = c.AsReal()
	assert.True(t, math.IsNaN(f))

	d, _ := doc.Get("d")
	f, ok := d.AsReal()
	require.True(t, ok)
	assert.Equal(t, 1000.0, f)
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = ParseYAML([]byte("a: [1, 2\n"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "yaml", pe.Format)

	_, err = ParseYAML([]byte("a: 18446744073709551615\n"))
	require.Error(t, err)
}

// nestedAnchors builds levels of ten-way anchors, each referring to the
// one before: a few hundred bytes that expand to 10^levels nodes.
func nestedAnchors(levels int) []byte {
	var b strings.Builder
	b.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for n := 1; n <= levels; n++ {
		prev := fmt.Sprintf("*a%d", n-1)
		refs := strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", ")
		fmt.Fprintf(&b, "a%d: &a%d [%s]\n", n, n, refs)
	}
	return []byte(b.String())
}

func TestParseYAMLStopsAliasExpansion(t *testing.T) {
	data := nestedAnchors(7)
	require.Less(t, len(data), 1024)

	_, err := ParseYAML(data)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "yaml", pe.Format)
	assert.Contains(t, pe.Msg, "aliases expand the document")
}

func TestParseYAMLAllowsModestAliases(t *testing.T) {
	doc, err := ParseYAML(nestedAnchors(2))
	require.NoError(t, err)
	a2, ok := doc.Get("a2")
	require.True(t, ok)
	assert.Equal(t, 10, a2.Len())
	assert.Equal(t, 10, a2.Items()[0].Len())
}

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"title": "lx", "n": 3, "r": 2.5, "e": 1e2, "ok": true, "nil": null, "list": [1, "x"], "title": "dup"}`))
	require.NoError(t, err)
	require.Equal(t, 8, doc.Len())

	title, _ := doc.Get("title")
	assert.True(t, title.Equal(StringValue("lx")))

	n, _ := doc.Get("n")
	assert.Equal(t, Int, n.Kind())

	r, _ := doc.Get("r")
	assert.Equal(t, Real, r.Kind())

	e, _ := doc.Get("e")
	assert.Equal(t, Real, e.Kind())

	ok, _ := doc.Get("ok")
	assert.True(t, ok.Equal(BoolValue(true)))

	null, found := doc.Get("nil")
	require.True(t, found)
	assert.True(t, null.IsNull())

	list, _ := doc.Get("list")
	assert.True(t, list.Equal(SequenceOf(IntValue(1), StringValue("x"))))
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseJSON([]byte("  "))
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = ParseJSON([]byte(`{"a": 1} {"b": 2}`))
	require.Error(t, err)

	_, err = ParseJSON([]byte(`{"a": `))
	require.Error(t, err)
}

func TestValueIsImmutable(t *testing.T) {
	items := []Value{IntValue(1)}
	seq := SequenceOf(items...)
	items[0] = IntValue(2)

	got := seq.Items()
	got[0] = StringValue("mutated")

	assert.True(t, seq.Equal(SequenceOf(IntValue(1))))
}

func TestDump(t *testing.T) {
	v := MappingOf(
		Pair("title", StringValue("lx")),
		Pair("tags", SequenceOf(IntValue(1), RealValue(2.5))),
		Pair("draft", NullValue()),
		Pair("two words", BoolValue(true)),
		Entry{Key: IntValue(7), Value: StringValue("seven")},
	)
	assert.Equal(t, `{title: "lx", tags: [1, 2.5], draft: ~, "two words": true, 7: "seven"}`, v.Dump())
}

func TestGetOnNonMapping(t *testing.T) {
	_, ok := StringValue("x").Get("x")
	assert.False(t, ok)
	_, ok = NullValue().Get("x")
	assert.False(t, ok)
}
