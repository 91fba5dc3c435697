package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

const goodYAML = `
site_info:
    title: lx (lightning)
    url: https://lightning.rs
    description: >
        A ridiculously fast site generator and engine.
    default_timezone: Eastern
    metadata:
        foo: bar
        quux: 2
build:
    output_dir: public
`

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFindFromClimbs(t *testing.T) {
	root := t.TempDir()
	want := write(t, root, "lightning.yaml", goodYAML)
	deep := filepath.Join(root, "content", "posts")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	got, err := FindFrom(deep)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindFromPrefersYAML(t *testing.T) {
	root := t.TempDir()
	write(t, root, "lightning.json", "{}")
	want := write(t, root, "lightning.yaml", goodYAML)

	got, err := FindFrom(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindUsesLXRoot(t *testing.T) {
	root := t.TempDir()
	want := write(t, root, "lightning.yaml", goodYAML)
	t.Setenv("LX_ROOT", root)

	got, err := Find()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	t.Setenv("LX_ROOT", t.TempDir())
	_, err = Find()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadSiteYAML(t *testing.T) {
	p := write(t, t.TempDir(), "lightning.yaml", goodYAML)
	info, err := LoadSite(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "lx (lightning)", info.Title)
	assert.Equal(t, "A ridiculously fast site generator and engine.\n", info.DescriptionOr(""))
	assert.Equal(t, siteinfo.Int(2), info.Metadata["quux"])
}

func TestLoadSiteJSON(t *testing.T) {
	p := write(t, t.TempDir(), "lightning.json", `{"site_info": {
		"title": "lx", "url": "https://lightning.rs", "default_timezone": "UTC",
		"metadata": {"ratio": 0.5, "draft": true}
	}}`)
	info, err := LoadSite(p, nil)
	require.NoError(t, err)
	assert.Equal(t, siteinfo.Real(0.5), info.Metadata["ratio"])
	assert.Equal(t, siteinfo.Bool(true), info.Metadata["draft"])
}

func TestLoadSiteErrorsCarryPath(t *testing.T) {
	dir := t.TempDir()

	p := write(t, dir, "missing-url.yaml", "site_info:\n    title: lx\n")
	_, err := LoadSite(p, nil)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, p, le.Path)
	assert.ErrorIs(t, err, siteinfo.ErrMissingField)

	p = write(t, dir, "broken.yaml", "site_info: [\n")
	_, err = LoadSite(p, nil)
	require.True(t, errors.As(err, &le))

	_, err = LoadSite(filepath.Join(dir, "nope.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReloaderPicksUpChanges(t *testing.T) {
	p := write(t, t.TempDir(), "lightning.yaml", goodYAML)
	r := NewReloader(p, nil, 4)
	var loaded []string
	r.OnLoad = func(info siteinfo.SiteInfo) { loaded = append(loaded, info.Title) }

	first, err := r.Current()
	require.NoError(t, err)
	again, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	changed := `
site_info:
    title: renamed
    url: https://lightning.rs
    default_timezone: UTC
`
	require.NoError(t, os.WriteFile(p, []byte(changed), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(p, future, future))

	second, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, "renamed", second.Title)
	assert.Equal(t, "lx (lightning)", first.Title)
	assert.Equal(t, future.Unix(), r.Touched().Unix())
	assert.Equal(t, []string{"lx (lightning)", "renamed"}, loaded)
}

func TestReloaderReportsInvalidFile(t *testing.T) {
	p := write(t, t.TempDir(), "lightning.yaml", "site_info:\n    title: 3\n")
	r := NewReloader(p, nil, 1)
	r.OnLoad = func(siteinfo.SiteInfo) { t.Fatal("OnLoad ran for an invalid file") }
	_, err := r.Current()
	assert.ErrorIs(t, err, siteinfo.ErrWrongType)
}
