package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// DownloadStatus is the lifecycle state of a single download session.
type DownloadStatus string

const (
	StatusInitializing DownloadStatus = "initializing"
	StatusDownloading  DownloadStatus = "downloading"
	StatusCompleted    DownloadStatus = "completed"
	StatusFailed       DownloadStatus = "failed"
	StatusCancelled    DownloadStatus = "cancelled"
)

// DownloadState tracks the progress of one download() session. Counters are
// atomic; current_file is last-writer-wins. Created fresh per session and
// terminal once status reaches Completed, Failed, or Cancelled.
type DownloadState struct {
	totalFiles     atomic.Int64
	completedFiles atomic.Int64
	failedFiles    atomic.Int64
	totalBytes     atomic.Int64
	downloadedBytes atomic.Int64
	currentFile    atomic.Pointer[string]
	status         atomic.Pointer[DownloadStatus]

	mu               sync.Mutex
	progressCallback func(*DownloadState)
	statusCallback   func(DownloadStatus)
	errorCallback    func(error)
	artifactFailures []*ArtifactError

	done   chan struct{}
	cancel context.CancelFunc
}

func newDownloadState() *DownloadState {
	d := &DownloadState{done: make(chan struct{})}
	initializing := StatusInitializing
	d.status.Store(&initializing)
	empty := ""
	d.currentFile.Store(&empty)
	return d
}

func (d *DownloadState) TotalFiles() int     { return int(d.totalFiles.Load()) }
func (d *DownloadState) CompletedFiles() int { return int(d.completedFiles.Load()) }
func (d *DownloadState) FailedFiles() int    { return int(d.failedFiles.Load()) }
func (d *DownloadState) TotalBytes() int64   { return d.totalBytes.Load() }
func (d *DownloadState) DownloadedBytes() int64 { return d.downloadedBytes.Load() }
func (d *DownloadState) CurrentFile() string { return *d.currentFile.Load() }
func (d *DownloadState) Status() DownloadStatus { return *d.status.Load() }

func (d *DownloadState) Progress() float64 {
	total := d.TotalFiles()
	if total == 0 {
		return 0
	}
	return float64(d.CompletedFiles()) / float64(total)
}

func (d *DownloadState) ProgressPercentage() float64 { return d.Progress() * 100 }

func (d *DownloadState) BytesProgress() float64 {
	total := d.TotalBytes()
	if total == 0 {
		return 0
	}
	return float64(d.DownloadedBytes()) / float64(total)
}

func (d *DownloadState) BytesProgressPercentage() float64 { return d.BytesProgress() * 100 }

func (d *DownloadState) IsCompleted() bool { return d.Status() == StatusCompleted }
func (d *DownloadState) IsFailed() bool    { return d.Status() == StatusFailed }
func (d *DownloadState) IsCancelled() bool { return d.Status() == StatusCancelled }

func (d *DownloadState) setTotalFiles(n int) {
	d.totalFiles.Store(int64(n))
	d.notifyProgress()
}

// incrementTotal grows the total-files count by one. Used when a sequential
// phase discovers mid-session that a foundational file needs fetching, which
// setTotalFiles's one-time count at session start could not have predicted.
func (d *DownloadState) incrementTotal() {
	d.totalFiles.Add(1)
	d.notifyProgress()
}

func (d *DownloadState) incrementCompleted() {
	d.completedFiles.Add(1)
	d.notifyProgress()
}

func (d *DownloadState) incrementFailed() {
	d.failedFiles.Add(1)
	d.notifyProgress()
}

// recordArtifactFailure appends a non-fatal per-library/per-asset failure
// for later observability, without failing the session.
func (d *DownloadState) recordArtifactFailure(err *ArtifactError) {
	d.mu.Lock()
	d.artifactFailures = append(d.artifactFailures, err)
	d.mu.Unlock()
}

// ArtifactFailures returns every per-artifact failure recorded so far this
// session.
func (d *DownloadState) ArtifactFailures() []*ArtifactError {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*ArtifactError(nil), d.artifactFailures...)
}

func (d *DownloadState) addDownloadedBytes(n int64) {
	d.downloadedBytes.Add(n)
	d.notifyProgress()
}

func (d *DownloadState) setTotalBytes(n int64) {
	d.totalBytes.Store(n)
	d.notifyProgress()
}

// addTotalBytes grows the expected-bytes total as each file's size becomes
// known, mirroring incrementTotal's mid-session file-count growth.
func (d *DownloadState) addTotalBytes(n int64) {
	d.totalBytes.Add(n)
	d.notifyProgress()
}

func (d *DownloadState) setCurrentFile(name string) {
	d.currentFile.Store(&name)
	d.notifyProgress()
}

func (d *DownloadState) setStatus(status DownloadStatus) {
	d.status.Store(&status)
	d.mu.Lock()
	cb := d.statusCallback
	d.mu.Unlock()
	if cb != nil {
		cb(status)
	}
	d.notifyProgress()
}

func (d *DownloadState) notifyProgress() {
	d.mu.Lock()
	cb := d.progressCallback
	d.mu.Unlock()
	if cb != nil {
		cb(d)
	}
}

func (d *DownloadState) notifyError(err error) {
	d.mu.Lock()
	cb := d.errorCallback
	d.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}

// OnProgress registers a callback invoked after every counter/status mutation.
func (d *DownloadState) OnProgress(cb func(*DownloadState)) *DownloadState {
	d.mu.Lock()
	d.progressCallback = cb
	d.mu.Unlock()
	return d
}

// OnStatus registers a callback invoked on every status transition.
func (d *DownloadState) OnStatus(cb func(DownloadStatus)) *DownloadState {
	d.mu.Lock()
	d.statusCallback = cb
	d.mu.Unlock()
	return d
}

// OnError registers a callback invoked when the session fails.
func (d *DownloadState) OnError(cb func(error)) *DownloadState {
	d.mu.Lock()
	d.errorCallback = cb
	d.mu.Unlock()
	return d
}

// WaitForCompletion blocks until the session reaches a terminal status.
func (d *DownloadState) WaitForCompletion() {
	<-d.done
}

// Cancel cancels the session's context; in-flight fetches are not forcibly
// aborted, but their results are discarded once the context is done.
func (d *DownloadState) Cancel() {
	if d.IsCompleted() || d.IsFailed() || d.IsCancelled() {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.setStatus(StatusCancelled)
}

func (d *DownloadState) markDone() {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
}

// FormattedProgress renders "completed/total files (pct%)".
func (d *DownloadState) FormattedProgress() string {
	return fmt.Sprintf("%d/%d files (%.1f%%)", d.CompletedFiles(), d.TotalFiles(), d.ProgressPercentage())
}

// FormattedBytesProgress renders "downloaded/total (pct%)" using humanized units.
func (d *DownloadState) FormattedBytesProgress() string {
	return fmt.Sprintf("%s/%s (%.1f%%)", formatBytes(d.DownloadedBytes()), formatBytes(d.TotalBytes()), d.BytesProgressPercentage())
}

func formatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
	}
}
