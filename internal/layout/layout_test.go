package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/opt/.minecraft")
	assert.Equal(t, "/opt/.minecraft/libraries", p.LibrariesDir)
	assert.Equal(t, "/opt/.minecraft/assets", p.AssetsDir)
}

func TestPathBuilders(t *testing.T) {
	p := NewPaths("/mc")

	assert.Equal(t, filepath.Join("/mc", "versions", "1.20.1", "1.20.1.json"), p.VersionJSONPath("1.20.1"))
	assert.Equal(t, filepath.Join("/mc", "versions", "1.20.1", "1.20.1.jar"), p.VersionJarPath("1.20.1"))
	assert.Equal(t, filepath.Join("/mc", "libraries", "com/mojang/brigadier.jar"), p.LibraryPath("com/mojang/brigadier.jar"))
	assert.Equal(t, filepath.Join("/mc", "assets", "indexes", "5.json"), p.AssetIndexPath("5"))
	assert.Equal(t, filepath.Join("/mc", "assets", "objects", "ab", "abcdef"), p.AssetObjectPath("abcdef"))
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(filepath.Join(root, ".minecraft"))

	require.NoError(t, EnsureDirectories(p))

	for _, dir := range []string{
		p.MCDir, p.LibrariesDir, p.AssetsDir,
		p.VersionsDir(),
		filepath.Join(p.AssetsDir, "indexes"),
		filepath.Join(p.AssetsDir, "objects"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureParents(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "c.txt")

	require.NoError(t, EnsureParents(target))

	info, err := os.Stat(filepath.Join(root, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
