// Package cmd implements the mcbootstrap-go command line shell: init,
// download, launch, and status, each driving an internal/bootstrap.Engine
// built from flags layered over an optional TOML config file.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sammwy/mcbootstrap-go/internal/bootstrap"
)

var (
	flagConfigPath       string
	flagUsername         string
	flagVersionID        string
	flagMCDir            string
	flagMaxMemoryMB      int
	flagMinMemoryMB      int
	flagJavaPath         string
	flagArtifactSource   string
	flagVerifyChecksums  bool
	flagVerbose          bool
)

var rootCmd = &cobra.Command{
	Use:   "mcbootstrap",
	Short: "mcbootstrap bootstraps and launches a Minecraft client installation",
	Long: `mcbootstrap resolves a Minecraft version manifest, downloads whatever
libraries, natives, and assets are missing, and launches the client jar with a
offline profile.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVarP(&flagUsername, "username", "u", "", "offline profile username")
	rootCmd.PersistentFlags().StringVar(&flagVersionID, "version", "", "Minecraft version id")
	rootCmd.PersistentFlags().StringVar(&flagMCDir, "mc-dir", "", "installation root (defaults to the OS-conventional .minecraft)")
	rootCmd.PersistentFlags().IntVar(&flagMaxMemoryMB, "max-memory", 0, "JVM max heap in MB (0 = config/default)")
	rootCmd.PersistentFlags().IntVar(&flagMinMemoryMB, "min-memory", 0, "JVM min heap in MB (0 = config/default)")
	rootCmd.PersistentFlags().StringVar(&flagJavaPath, "java-path", "", "override the discovered java executable")
	rootCmd.PersistentFlags().StringVar(&flagArtifactSource, "artifact-source", "", "connector URI to fetch libraries/assets/descriptors from (http(s)://, sftp://, file://)")
	rootCmd.PersistentFlags().BoolVar(&flagVerifyChecksums, "verify-checksums", false, "re-verify SHA-1 of existing files during initialize")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildConfig merges the loaded TOML file with explicit flags, flags taking
// precedence over file values, and file values taking precedence over
// LaunchConfig's built-in defaults.
func buildConfig() (*bootstrap.LaunchConfig, error) {
	file, err := loadFileConfig(flagConfigPath)
	if err != nil {
		return nil, err
	}

	username := firstNonEmpty(flagUsername, file.Username)
	versionID := firstNonEmpty(flagVersionID, file.VersionID)
	mcDir := firstNonEmpty(flagMCDir, file.MCDir)

	cfg := bootstrap.New(username, versionID, mcDir)
	if mcDir == "" {
		cfg.WithDotMinecraft()
	}

	maxMB := firstNonZero(flagMaxMemoryMB, file.MaxMemoryMB)
	minMB := firstNonZero(flagMinMemoryMB, file.MinMemoryMB)
	if maxMB != 0 || minMB != 0 {
		if maxMB == 0 {
			maxMB = cfg.MaxMemoryMB
		}
		if minMB == 0 {
			minMB = cfg.MinMemoryMB
		}
		cfg.WithMemory(maxMB, minMB)
	}

	if javaPath := firstNonEmpty(flagJavaPath, file.JavaPath); javaPath != "" {
		cfg.WithJavaPath(javaPath)
	}
	if source := firstNonEmpty(flagArtifactSource, file.ArtifactSource); source != "" {
		cfg.WithArtifactSource(source)
	}
	cfg.WithVerifyChecksums(flagVerifyChecksums)

	return cfg, nil
}

func buildEngine(logger *slog.Logger) (*bootstrap.Engine, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return bootstrap.NewEngine(cfg, logger)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
