package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaunchState_FinalizeDerivesCanLaunch(t *testing.T) {
	s := newLaunchState()
	s.finalize("up to date")

	assert.True(t, s.Initialized())
	assert.True(t, s.CanLaunch(), "no missing entries means can_launch holds")
}

func TestLaunchState_MissingEntriesBlockLaunch(t *testing.T) {
	s := newLaunchState()
	s.addMissingLibrary("com/mojang/brigadier.jar")
	s.finalize("1 files missing")

	assert.True(t, s.Initialized())
	assert.False(t, s.CanLaunch())

	snap := s.Snapshot()
	assert.True(t, snap.NeedsDownload())
	assert.Equal(t, []string{"com/mojang/brigadier.jar"}, snap.MissingLibraries)
}

func TestLaunchState_AddIsIdempotent(t *testing.T) {
	s := newLaunchState()
	s.addMissingAsset("minecraft/sounds/x.ogg")
	s.addMissingAsset("minecraft/sounds/x.ogg")

	assert.Equal(t, 1, s.totalMissing())
}

func TestLaunchState_RemoveClearsEntry(t *testing.T) {
	s := newLaunchState()
	s.addMissingFile(SentinelClientJar)
	s.removeMissingFile(SentinelClientJar)
	s.finalize("up to date")

	assert.True(t, s.CanLaunch())
}

func TestLaunchState_FailInitializeRecordsError(t *testing.T) {
	s := newLaunchState()
	want := errors.New("boom")
	s.failInitialize(want)

	assert.False(t, s.Initialized())
	assert.False(t, s.CanLaunch())
	assert.ErrorIs(t, s.Snapshot().LastError, want)
}

func TestLaunchState_ResetClearsEverything(t *testing.T) {
	s := newLaunchState()
	s.addMissingLibrary("x.jar")
	s.finalize("stale")
	s.Reset()

	snap := s.Snapshot()
	assert.False(t, snap.Initialized)
	assert.False(t, snap.CanLaunch)
	assert.Empty(t, snap.MissingLibraries)
}
