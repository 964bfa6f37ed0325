package connector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileConnector_RoundTrip(t *testing.T) {
	root := t.TempDir()
	c, err := newFileConnector("file://" + root)
	require.NoError(t, err)

	require.NoError(t, c.SendFileFromBytes(context.Background(), "sub/data.txt", []byte("payload")))

	data, err := c.ReadFileBytes(context.Background(), "sub/data.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.True(t, c.HasFile(context.Background(), "sub/data.txt"))
	assert.False(t, c.HasFile(context.Background(), "sub/missing.txt"))
}

func TestFileConnector_DownloadTo(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "source.jar"), []byte("jar"), 0o644))

	c, err := newFileConnector("file://" + root)
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "out", "source.jar")
	require.NoError(t, c.DownloadTo(context.Background(), "source.jar", target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "jar", string(data))
}
