package contract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, CoreValue, GetPlainLabel(true))
	assert.Equal(t, PeripheralValue, GetPlainLabel(false))
}

func TestGetColorLabel(t *testing.T) {
	assert.Contains(t, GetColorLabel(true), CoreValue)
	assert.Contains(t, GetColorLabel(false), PeripheralValue)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, filepath.Base(GetCacheDBFilePath()) == ".coredev_cache.db")
	assert.True(t, filepath.Base(GetAnalysisDBFilePath()) == ".coredev_analysis.db")
	assert.NotEqual(t, GetCacheDBFilePath(), GetAnalysisDBFilePath())
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"short", "bob", 10, "bob"},
		{"exact", "abcdef", 6, "abcdef"},
		{"long", "alice@example.com", 10, "...ple.com"},
		{"tiny width", "alice", 3, "alice"},
		{"unicode", "józef.wąs@example.com", 8, "...e.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		SetVerbose(false)
	})

	LogWarn("cache unavailable", errors.New("boom"))
	assert.Contains(t, buf.String(), "cache unavailable")
	assert.Contains(t, buf.String(), "boom")

	SetVerbose(true)
	assert.Equal(t, logrus.DebugLevel, Logger().GetLevel())
	SetVerbose(false)
	assert.Equal(t, logrus.InfoLevel, Logger().GetLevel())
}
