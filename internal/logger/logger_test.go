package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONFile(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	dir := filepath.Join(t.TempDir(), "logs")
	log, err := New(dir, "info", false)
	require.NoError(t, err)

	log.Infow("site loaded", "file", "lightning.yaml")
	log.Debugw("hidden at info")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"msg":"site loaded"`)
	assert.Contains(t, body, `"level":"info"`)
	assert.False(t, strings.Contains(body, "hidden at info"))
}

func TestNewInstallsGlobal(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	dir := t.TempDir()
	_, err := New(dir, "debug", false)
	require.NoError(t, err)

	zap.S().Warnw("via global", "k", 1)
	require.NoError(t, zap.S().Sync())

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"via global"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("", "loud", false)
	assert.Error(t, err)
}
