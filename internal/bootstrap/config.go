package bootstrap

import (
	"fmt"

	"github.com/sammwy/mcbootstrap-go/internal/launchcmd"
	"github.com/sammwy/mcbootstrap-go/internal/layout"
)

const (
	defaultMaxMemoryMB = 2048
	defaultMinMemoryMB = 512
)

// LaunchConfig is immutable once the Engine is constructed from it. Build it
// with New and the fluent With*/Add* methods, grounded on the original
// implementation's builder-style construction.
type LaunchConfig struct {
	Username    string
	VersionID   string
	MCDir       string
	MaxMemoryMB int
	MinMemoryMB int

	// JavaPath overrides PATH-based java discovery when set (resolves the
	// specification's open question about Java executable configurability).
	JavaPath string

	// ArtifactSource, when set, is a connector URI (http(s)://, sftp://,
	// file://) the engine fetches libraries/assets/descriptors through
	// instead of the default Mojang endpoints.
	ArtifactSource string

	// VerifyChecksums opts into SHA-1 re-verification during Initialize's
	// diff, so a file that exists but no longer matches its recorded hash is
	// treated as missing. Off by default, matching the base download path
	// being existence-gated rather than hash-gated.
	VerifyChecksums bool

	jvmArgs  []launchcmd.KeyValue
	gameArgs []launchcmd.KeyValue
}

// New constructs a LaunchConfig with the default memory bounds.
func New(username, versionID, mcDir string) *LaunchConfig {
	return &LaunchConfig{
		Username:    username,
		VersionID:   versionID,
		MCDir:       mcDir,
		MaxMemoryMB: defaultMaxMemoryMB,
		MinMemoryMB: defaultMinMemoryMB,
	}
}

// WithDotMinecraft sets MCDir to the OS-conventional default directory.
func (c *LaunchConfig) WithDotMinecraft() *LaunchConfig {
	if dir, err := layout.DefaultMCDir(); err == nil {
		c.MCDir = dir
	}
	return c
}

// WithMemory sets the max/min JVM heap in megabytes.
func (c *LaunchConfig) WithMemory(maxMB, minMB int) *LaunchConfig {
	c.MaxMemoryMB = maxMB
	c.MinMemoryMB = minMB
	return c
}

// WithJavaPath overrides the java executable used at launch.
func (c *LaunchConfig) WithJavaPath(path string) *LaunchConfig {
	c.JavaPath = path
	return c
}

// WithArtifactSource points the engine at an alternate connector URI.
func (c *LaunchConfig) WithArtifactSource(uri string) *LaunchConfig {
	c.ArtifactSource = uri
	return c
}

// WithVerifyChecksums opts into the SHA-1 recheck during Initialize.
func (c *LaunchConfig) WithVerifyChecksums(verify bool) *LaunchConfig {
	c.VerifyChecksums = verify
	return c
}

// AddJVMArg appends a custom JVM argument, preserved in insertion order.
func (c *LaunchConfig) AddJVMArg(key, value string) *LaunchConfig {
	c.jvmArgs = append(c.jvmArgs, launchcmd.KeyValue{Key: key, Value: value})
	return c
}

// AddGameArg appends a custom game argument, preserved in insertion order.
func (c *LaunchConfig) AddGameArg(key, value string) *LaunchConfig {
	c.gameArgs = append(c.gameArgs, launchcmd.KeyValue{Key: key, Value: value})
	return c
}

// Paths derives the on-disk layout rooted at MCDir.
func (c *LaunchConfig) Paths() layout.Paths {
	return layout.NewPaths(c.MCDir)
}

// Validate checks the invariants the specification requires at construction
// time: non-empty username and a configured installation root.
func (c *LaunchConfig) Validate() error {
	if c.Username == "" {
		return &ConfigError{Reason: "username must not be empty"}
	}
	if c.MCDir == "" {
		return &ConfigError{Reason: "mc_dir must be set"}
	}
	if c.VersionID == "" {
		return &ConfigError{Reason: "version_id must be set"}
	}
	return nil
}

// DiscoverVersion is available as a standalone helper for callers that want
// the conventional version.json/.jar locations without constructing a full
// LaunchConfig first.
func DiscoverVersion(mcDir, versionID string) (jsonPath, jarPath string) {
	p := layout.NewPaths(mcDir)
	return p.VersionJSONPath(versionID), p.VersionJarPath(versionID)
}

func (c *LaunchConfig) String() string {
	return fmt.Sprintf("LaunchConfig{username=%s version=%s mcDir=%s}", c.Username, c.VersionID, c.MCDir)
}
