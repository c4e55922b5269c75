package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "hé...", Truncate("héllo", 2))
}

func TestIsolatedLogger_GetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l := NewIsolatedLogger(path)

	l.Info(ModuleChat, "first", nil)
	l.Warn(ModuleChat, "second", map[string]interface{}{"k": "v"})
	l.Error(ModuleChat, "third", map[string]interface{}{"error": "boom"})
	require.NoError(t, l.Sync())

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, ModuleChat, all[0].Module)
	assert.NotEmpty(t, all[0].Id)

	warns, err := l.GetLogs("WARN", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "second", warns[0].Message)

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	empty, err := l.GetLogs("", 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNopLogger_GetLogs(t *testing.T) {
	logs, err := NewNopLogger().GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
