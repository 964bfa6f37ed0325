// Package launchcmd assembles the deterministic argv for the child Java
// process that runs the game.
package launchcmd

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/sammwy/mcbootstrap-go/internal/auth"
	"github.com/sammwy/mcbootstrap-go/internal/manifest"
	"github.com/sammwy/mcbootstrap-go/internal/rules"
)

// Input carries everything BuildArgv needs, kept independent of the
// bootstrap package's LaunchConfig type to avoid an import cycle between the
// engine and the command builder.
type Input struct {
	JavaPath     string
	MaxMemoryMB  int
	MinMemoryMB  int
	JVMArgs      []KeyValue
	GameArgs     []KeyValue
	ClientJar    string
	LibrariesDir string
	Libraries    []manifest.Library
	MainClass    string
	Username     string
	VersionID    string
	VersionType  string
	MCDir        string
	AssetsDir    string
	AssetIndexID string
	Host         rules.Host
}

// KeyValue is one custom JVM or game argument, emitted in insertion order.
type KeyValue struct {
	Key   string
	Value string
}

// BuildArgv materializes the full argv, in the fixed order the specification
// requires: java binary, memory flags, custom JVM args, classpath, main
// class, fixed game args, custom game args.
func BuildArgv(in Input) []string {
	argv := []string{in.JavaPath}

	argv = append(argv,
		"-Xmx"+strconv.Itoa(in.MaxMemoryMB)+"m",
		"-Xms"+strconv.Itoa(in.MinMemoryMB)+"m",
	)

	for _, kv := range in.JVMArgs {
		argv = append(argv, kv.Key)
		if kv.Value != "" {
			argv = append(argv, kv.Value)
		}
	}

	argv = append(argv, "-cp", classpath(in))
	argv = append(argv, in.MainClass)

	argv = append(argv,
		"--username", in.Username,
		"--version", in.VersionID,
		"--gameDir", in.MCDir,
		"--assetsDir", in.AssetsDir,
		"--assetIndex", in.AssetIndexID,
		"--uuid", auth.NewOfflineUUID(),
		"--accessToken", auth.OfflineAccessToken,
		"--userType", "mojang",
		"--versionType", in.VersionType,
	)

	for _, kv := range in.GameArgs {
		argv = append(argv, kv.Key)
		if kv.Value != "" {
			argv = append(argv, kv.Value)
		}
	}

	return argv
}

// classpath joins the client jar followed by every admitted library's main
// artifact path. Native-only entries never appear on the classpath.
func classpath(in Input) string {
	entries := []string{in.ClientJar}

	host := in.Host
	for _, lib := range in.Libraries {
		if !rules.Admits(lib.Rules, host) {
			continue
		}
		if lib.Downloads.Artifact == nil {
			continue
		}
		entries = append(entries, filepath.Join(in.LibrariesDir, lib.Downloads.Artifact.Path))
	}

	return joinPathList(entries)
}

func joinPathList(entries []string) string {
	sep := string(os.PathListSeparator)
	out := ""
	for i, e := range entries {
		if i > 0 {
			out += sep
		}
		out += e
	}
	return out
}

