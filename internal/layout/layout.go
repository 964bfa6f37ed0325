// Package layout maps logical identifiers (version id, library path, asset
// hash) to on-disk paths under a Minecraft installation root, and provisions
// the directory tree those paths live in.
package layout

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultMCDir returns the OS-conventional default Minecraft directory.
func DefaultMCDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, ".minecraft"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft"), nil
	default:
		return filepath.Join(home, ".minecraft"), nil
	}
}

// Paths resolves the on-disk locations derived from an installation root.
type Paths struct {
	MCDir        string
	LibrariesDir string
	AssetsDir    string
}

// NewPaths derives the conventional libraries/ and assets/ subdirectories
// from mcDir.
func NewPaths(mcDir string) Paths {
	return Paths{
		MCDir:        mcDir,
		LibrariesDir: filepath.Join(mcDir, "libraries"),
		AssetsDir:    filepath.Join(mcDir, "assets"),
	}
}

// EnsureDirectories creates every directory the engine writes into. It is
// idempotent.
func EnsureDirectories(p Paths) error {
	dirs := []string{
		p.MCDir,
		p.LibrariesDir,
		p.AssetsDir,
		filepath.Join(p.MCDir, "versions"),
		filepath.Join(p.AssetsDir, "indexes"),
		filepath.Join(p.AssetsDir, "objects"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// EnsureParents creates the parent directory of a leaf file path.
func EnsureParents(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// VersionJSONPath returns mc_dir/versions/<id>/<id>.json.
func (p Paths) VersionJSONPath(versionID string) string {
	return filepath.Join(p.MCDir, "versions", versionID, versionID+".json")
}

// VersionJarPath returns mc_dir/versions/<id>/<id>.jar.
func (p Paths) VersionJarPath(versionID string) string {
	return filepath.Join(p.MCDir, "versions", versionID, versionID+".jar")
}

// LibraryPath resolves a Maven-style artifact path under LibrariesDir.
func (p Paths) LibraryPath(artifactPath string) string {
	return filepath.Join(p.LibrariesDir, artifactPath)
}

// AssetIndexPath returns assets_dir/indexes/<id>.json.
func (p Paths) AssetIndexPath(assetIndexID string) string {
	return filepath.Join(p.AssetsDir, "indexes", assetIndexID+".json")
}

// AssetObjectPath returns assets_dir/objects/<hash[0:2]>/<hash>.
func (p Paths) AssetObjectPath(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(p.AssetsDir, "objects", hash)
	}
	return filepath.Join(p.AssetsDir, "objects", hash[:2], hash)
}

// VersionsDir returns mc_dir/versions.
func (p Paths) VersionsDir() string {
	return filepath.Join(p.MCDir, "versions")
}
