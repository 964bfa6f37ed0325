package javahome

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_OverrideMustExist(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestResolve_OverrideReturnedAsIs(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "java")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755))

	got, err := Resolve(fake)
	require.NoError(t, err)
	assert.Equal(t, fake, got)
}

func TestResolve_FallsBackToPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH lookup test targets unix-style shell scripts")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "java")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755))

	t.Setenv("PATH", dir)

	got, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, fake, got)
}
