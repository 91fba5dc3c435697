package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapReader struct {
	data  map[string]map[string]any
	reads int
}

func (m *mapReader) ReadKV(_ context.Context, mount, path string) (map[string]any, error) {
	m.reads++
	d, ok := m.data[mount+"/"+path]
	if !ok {
		return nil, errors.New("404")
	}
	return d, nil
}

func TestParseRef(t *testing.T) {
	path, key, err := ParseRef("secret/lx/catalog#dsn")
	require.NoError(t, err)
	assert.Equal(t, "secret/lx/catalog", path)
	assert.Equal(t, "dsn", key)

	for _, bad := range []string{"", "secret/lx", "#dsn", "secret/lx#"} {
		_, _, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrBadReference, bad)
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("secret/lx/catalog")
	assert.Equal(t, "secret", m)
	assert.Equal(t, "lx/catalog", r)

	m, r = splitMount("secret")
	assert.Equal(t, "secret", m)
	assert.Empty(t, r)
}

func TestResolveCaches(t *testing.T) {
	reader := &mapReader{data: map[string]map[string]any{
		"secret/lx": {"dsn": "user:pw@/lx", "port": 3306},
	}}
	v := NewWithReader(reader, time.Minute)
	ctx := context.Background()

	got, err := v.Resolve(ctx, "secret/lx#dsn")
	require.NoError(t, err)
	assert.Equal(t, "user:pw@/lx", got)

	_, err = v.Resolve(ctx, "secret/lx#dsn")
	require.NoError(t, err)
	assert.Equal(t, 1, reader.reads)
}

func TestResolveFailures(t *testing.T) {
	reader := &mapReader{data: map[string]map[string]any{
		"secret/lx": {"port": 3306},
	}}
	v := NewWithReader(reader, 0)
	ctx := context.Background()

	_, err := v.Resolve(ctx, "secret/lx#missing")
	assert.ErrorContains(t, err, "not found")

	_, err = v.Resolve(ctx, "secret/lx#port")
	assert.ErrorContains(t, err, "not a string")

	_, err = v.Resolve(ctx, "secret/other#dsn")
	assert.ErrorContains(t, err, "vault get")

	_, err = v.Resolve(ctx, "nohash")
	assert.ErrorIs(t, err, ErrBadReference)
}

func TestStartRenewalWithoutConnection(t *testing.T) {
	v := NewVault(nil)
	v.StartRenewal(context.Background())
}
