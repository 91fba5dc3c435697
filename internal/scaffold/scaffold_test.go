package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/igxactly-forks/lightning/internal/document"
	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":       "hello-world",
		"  Go 1.24 -- Notes ": "go-1-24-notes",
		"Café au lait":        "caf-au-lait",
		"!!!":                 "untitled",
		"":                    "untitled",
	}
	for in, want := range cases {
		assert.Equal(t, want, MakeSlug(in), in)
	}

	long := MakeSlug(strings.Repeat("ab ", 60))
	assert.LessOrEqual(t, len(long), MaxSlug)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func eastern(t *testing.T) siteinfo.SiteInfo {
	t.Helper()
	info, err := siteinfo.FromMapping(document.MappingOf(
		document.Pair("title", document.StringValue("lx")),
		document.Pair("url", document.StringValue("https://lightning.rs")),
		document.Pair("default_timezone", document.StringValue("America/New_York")),
	))
	require.NoError(t, err)
	return info
}

func TestNewPost(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content")
	now := time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)

	path, err := New("post", dir, "Hello, World", eastern(t), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hello-world.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("---\n")))
	parts := strings.SplitN(string(raw), "---\n", 3)
	require.Len(t, parts, 3)

	var fm FrontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Hello, World", fm.Title)
	assert.Equal(t, "2024-02-29T22:00:00-05:00", fm.Date)
	assert.True(t, fm.Draft)
}

func TestNewPostRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "hello.md")
	require.NoError(t, os.WriteFile(existing, []byte("mine"), 0o644))

	_, err := NewPost(dir, "Hello", eastern(t), time.Now())
	assert.ErrorIs(t, err, ErrExists)

	raw, _ := os.ReadFile(existing)
	assert.Equal(t, "mine", string(raw))
}

func TestNewRejectsUnknownTemplate(t *testing.T) {
	_, err := New("page", t.TempDir(), "Hello", eastern(t), time.Now())
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	_, err = NewPost(t.TempDir(), "   ", eastern(t), time.Now())
	assert.Error(t, err)
}
