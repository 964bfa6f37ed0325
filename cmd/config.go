package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the flags every subcommand accepts, letting an operator
// pin defaults in a TOML file instead of retyping them on every invocation.
// Explicit flags always win over a loaded value.
type fileConfig struct {
	Username       string `toml:"username"`
	VersionID      string `toml:"version"`
	MCDir          string `toml:"mc_dir"`
	MaxMemoryMB    int    `toml:"max_memory_mb"`
	MinMemoryMB    int    `toml:"min_memory_mb"`
	JavaPath       string `toml:"java_path"`
	ArtifactSource string `toml:"artifact_source"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}

	if path == "" {
		path = findDefaultConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("cmd: load config %s: %w", path, err)
	}
	return cfg, nil
}

func findDefaultConfigFile() string {
	candidates := []string{"mcbootstrap.toml"}
	if cfgDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(cfgDir, "mcbootstrap", "config.toml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
