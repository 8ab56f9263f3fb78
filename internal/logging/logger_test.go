package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelth-com/eckwms-mondialrelay/internal/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, "api")
	assert.Error(t, err)
}

func TestNewWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(config.LogConfig{Level: "debug", Directory: dir}, "mrctl")
	require.NoError(t, err)

	logger.Info("batch sent")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^mrctl-.*\.log$`, entries[0].Name())
}
