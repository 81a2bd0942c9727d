package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := New(Config{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, l.GetLevel())

	l.Info("daily reset finished", "users", 3)

	data, err := os.ReadFile(filepath.Join(dir, "habitrpg.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "daily reset finished")
	assert.Contains(t, string(data), "users=3")
}

func TestNew_DebugLevel(t *testing.T) {
	l, err := New(Config{Debug: true})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, l.GetLevel())
}
