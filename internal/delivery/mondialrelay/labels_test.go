package mondialrelay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempFileSinkWrite(t *testing.T) {
	dir := t.TempDir()
	sink := &TempFileSink{Dir: dir, Scope: "eckwms"}

	first, err := sink.Write("FR123", "pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	second, err := sink.Write("FR123", "pdf", []byte("%PDF-1.4 again"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same reference never collides")
	assert.Equal(t, dir, filepath.Dir(first))

	name := filepath.Base(first)
	assert.True(t, strings.HasPrefix(name, "eckwms-mondialrelay-FR123-"), name)
	assert.True(t, strings.HasSuffix(name, ".pdf"), name)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestTempFileSinkMissingDir(t *testing.T) {
	sink := &TempFileSink{Dir: filepath.Join(t.TempDir(), "missing"), Scope: "eckwms"}
	_, err := sink.Write("FR123", "zpl", []byte("^XA^XZ"))
	assert.Error(t, err)
}
