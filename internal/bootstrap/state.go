package bootstrap

import "sync"

// sentinel names for the three top-level missing-file markers.
const (
	SentinelVersionJSON = "version.json"
	SentinelAssetIndex  = "asset_index"
	SentinelClientJar   = "client.jar"
)

// LaunchState is the engine's mutable diagnosis of an installation, guarded
// by a single mutex. Mutators preserve set uniqueness: adding an already
// present entry, or removing an absent one, is a no-op. can_launch holds iff
// initialized and every missing set is empty.
type LaunchState struct {
	mu sync.Mutex

	initialized bool
	canLaunch   bool

	missingFiles      []string
	missingLibraries  []string
	missingAssets     []string

	statusMessage string
	lastError     error
}

// Snapshot is an immutable, safely-shared copy of LaunchState for observers.
type Snapshot struct {
	Initialized      bool
	CanLaunch        bool
	MissingFiles     []string
	MissingLibraries []string
	MissingAssets    []string
	StatusMessage    string
	LastError        error
}

// NeedsDownload reports whether any file is currently missing.
func (s Snapshot) NeedsDownload() bool {
	return len(s.MissingFiles)+len(s.MissingLibraries)+len(s.MissingAssets) > 0
}

func newLaunchState() *LaunchState {
	return &LaunchState{}
}

// Reset clears all diagnosis fields, run at the start of every Initialize.
func (s *LaunchState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.canLaunch = false
	s.missingFiles = nil
	s.missingLibraries = nil
	s.missingAssets = nil
	s.statusMessage = ""
	s.lastError = nil
}

func addUnique(set []string, v string) []string {
	for _, existing := range set {
		if existing == v {
			return set
		}
	}
	return append(set, v)
}

func removeIfPresent(set []string, v string) []string {
	for i, existing := range set {
		if existing == v {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}

func (s *LaunchState) addMissingFile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingFiles = addUnique(s.missingFiles, name)
}

func (s *LaunchState) removeMissingFile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingFiles = removeIfPresent(s.missingFiles, name)
}

func (s *LaunchState) addMissingLibrary(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingLibraries = addUnique(s.missingLibraries, path)
}

func (s *LaunchState) removeMissingLibrary(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingLibraries = removeIfPresent(s.missingLibraries, path)
}

func (s *LaunchState) addMissingAsset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingAssets = addUnique(s.missingAssets, name)
}

func (s *LaunchState) removeMissingAsset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingAssets = removeIfPresent(s.missingAssets, name)
}

func (s *LaunchState) totalMissing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.missingFiles) + len(s.missingLibraries) + len(s.missingAssets)
}

// Finalize sets initialized=true and derives can_launch from the current
// missing sets, then records a human-readable status.
func (s *LaunchState) finalize(statusMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	s.canLaunch = len(s.missingFiles) == 0 && len(s.missingLibraries) == 0 && len(s.missingAssets) == 0
	s.statusMessage = statusMessage
}

// FailInitialize records a failed Initialize attempt: initialized remains
// false and the error is captured for observation.
func (s *LaunchState) failInitialize(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.canLaunch = false
	s.lastError = err
}

func (s *LaunchState) setLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

// Snapshot copies the current state for safe observation by a caller.
func (s *LaunchState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Initialized:      s.initialized,
		CanLaunch:        s.canLaunch,
		MissingFiles:     append([]string(nil), s.missingFiles...),
		MissingLibraries: append([]string(nil), s.missingLibraries...),
		MissingAssets:    append([]string(nil), s.missingAssets...),
		StatusMessage:    s.statusMessage,
		LastError:        s.lastError,
	}
}

func (s *LaunchState) CanLaunch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canLaunch
}

func (s *LaunchState) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
