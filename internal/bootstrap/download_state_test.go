package bootstrap

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadState_ProgressPercentage(t *testing.T) {
	d := newDownloadState()
	d.setTotalFiles(4)
	d.incrementCompleted()
	d.incrementCompleted()

	assert.InDelta(t, 50.0, d.ProgressPercentage(), 0.001)
	assert.Equal(t, 2, d.CompletedFiles())
}

func TestDownloadState_BytesProgress(t *testing.T) {
	d := newDownloadState()
	d.setTotalBytes(1000)
	d.addDownloadedBytes(250)

	assert.InDelta(t, 25.0, d.BytesProgressPercentage(), 0.001)
}

func TestDownloadState_AddTotalBytesAccumulates(t *testing.T) {
	d := newDownloadState()
	d.addTotalBytes(400)
	d.addTotalBytes(600)
	d.addDownloadedBytes(500)

	assert.Equal(t, int64(1000), d.TotalBytes())
	assert.InDelta(t, 50.0, d.BytesProgressPercentage(), 0.001)
}

func TestDownloadState_ZeroTotalIsZeroProgress(t *testing.T) {
	d := newDownloadState()
	assert.Equal(t, 0.0, d.Progress())
	assert.Equal(t, 0.0, d.BytesProgress())
}

func TestDownloadState_OnProgressCallback(t *testing.T) {
	d := newDownloadState()

	var calls int32
	d.OnProgress(func(*DownloadState) { atomic.AddInt32(&calls, 1) })

	d.setTotalFiles(1)
	d.incrementCompleted()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestDownloadState_WaitForCompletion(t *testing.T) {
	d := newDownloadState()

	done := make(chan struct{})
	go func() {
		d.setStatus(StatusCompleted)
		d.markDone()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer goroutine did not finish")
	}

	d.WaitForCompletion()
	assert.True(t, d.IsCompleted())
}

func TestDownloadState_CancelIsIdempotentAfterTerminal(t *testing.T) {
	d := newDownloadState()

	var cancelled bool
	d.cancel = func() { cancelled = true }

	d.setStatus(StatusCompleted)
	d.Cancel()

	assert.False(t, cancelled, "cancel must be a no-op once the session is already terminal")
	assert.True(t, d.IsCompleted())
}

func TestDownloadState_CancelTransitionsStatus(t *testing.T) {
	d := newDownloadState()
	require.False(t, d.IsCancelled())

	d.cancel = func() {}
	d.Cancel()

	assert.True(t, d.IsCancelled())
}

func TestDownloadState_FormattedProgress(t *testing.T) {
	d := newDownloadState()
	d.setTotalFiles(10)
	d.incrementCompleted()

	assert.Contains(t, d.FormattedProgress(), "1/10")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "1.0 MB", formatBytes(1024*1024))
}
