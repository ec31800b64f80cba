package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(WithLogLevel("loud"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level=loud")
}

func TestNewSugared_WritesJSONWithApp(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")

	sl, err := NewSugared("visitor-counter-test", WithLogLevel("debug"), WithOutputPaths(out))
	require.NoError(t, err)
	sl.Debugw("hello", "count", 3)
	require.NoError(t, sl.Sync())

	b, err := os.ReadFile(out)
	require.NoError(t, err)

	var ent map[string]any
	require.NoError(t, json.Unmarshal(b, &ent))
	assert.Equal(t, "visitor-counter-test", ent["app"])
	assert.Equal(t, "hello", ent["msg"])
	assert.Equal(t, "debug", ent["level"])
	assert.EqualValues(t, 3, ent["count"])
}

func TestNewSugared_LevelFilters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")

	sl, err := NewSugared("x", WithLogLevel("warn"), WithOutputPaths(out))
	require.NoError(t, err)
	sl.Infof("dropped")
	require.NoError(t, sl.Sync())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestMustSugared_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustSugared("x", WithLogLevel("nope"))
	})
}
