package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesSHA1_KnownVector(t *testing.T) {
	// echo -n "hello" | sha1sum
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", BytesSHA1([]byte("hello")))
}

func TestBytesSHA256_KnownVector(t *testing.T) {
	// echo -n "hello" | sha256sum
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", BytesSHA256([]byte("hello")))
}

func TestFileSHA1_MatchesBytesSHA1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	got, err := FileSHA1(path)
	require.NoError(t, err)
	assert.Equal(t, BytesSHA1([]byte("hello world")), got)
}

func TestFileSHA1_MissingFile(t *testing.T) {
	_, err := FileSHA1(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
