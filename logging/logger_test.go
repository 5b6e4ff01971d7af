package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFileAndConsole(t *testing.T) {
	file := filepath.Join(t.TempDir(), "editor.log")
	var console bytes.Buffer

	logger, closer, err := New(Options{File: file, Level: "debug", MaxSizeMB: 1, Console: &console})
	require.NoError(t, err)
	logger.WithField("area", "town.json").Info("saved area")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved area")
	assert.Contains(t, string(data), "area=town.json")
	assert.Contains(t, console.String(), "saved area")
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
