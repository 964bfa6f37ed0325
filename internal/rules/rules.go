// Package rules evaluates Mojang library rules and selects native
// classifiers for the host the process is running on.
package rules

import (
	"runtime"
	"strings"

	"github.com/sammwy/mcbootstrap-go/internal/manifest"
)

// OS is the normalized host operating system name used in rule matching.
type OS string

const (
	Windows OS = "windows"
	Linux   OS = "linux"
	OSX     OS = "osx"
)

// Host identifies the current process's operating system and architecture
// for rule evaluation.
type Host struct {
	OS   OS
	Arch string
}

// DetectHost derives the Host from the runtime's GOOS/GOARCH.
func DetectHost() Host {
	return Host{OS: normalizeOS(runtime.GOOS), Arch: runtime.GOARCH}
}

func normalizeOS(goos string) OS {
	switch {
	case strings.HasPrefix(goos, "win"):
		return Windows
	case strings.Contains(goos, "linux"):
		return Linux
	case strings.Contains(goos, "darwin"), strings.Contains(goos, "mac"):
		return OSX
	default:
		return Linux
	}
}

// Admits reports whether a library whose Rules are given should be admitted
// on host. An absent or empty rule list always admits. Otherwise rules are
// processed in order and the verdict is the action of the last matching
// rule; a library with no matching rule is rejected.
func Admits(rulesList []manifest.Rule, host Host) bool {
	if len(rulesList) == 0 {
		return true
	}

	allowed := false
	for _, rule := range rulesList {
		if !matches(rule, host) {
			continue
		}
		allowed = rule.Action == "allow"
	}
	return allowed
}

func matches(rule manifest.Rule, host Host) bool {
	if rule.OS == nil {
		return true
	}

	if name := strings.ToLower(rule.OS.Name); name != "" {
		if OS(name) != host.OS {
			return false
		}
	}

	if arch := strings.ToLower(rule.OS.Arch); arch != "" {
		if !strings.Contains(strings.ToLower(host.Arch), arch) {
			return false
		}
	}

	return true
}

// NativeClassifier returns the classifier key a Library's native artifact is
// stored under for host, and whether one is defined at all.
func NativeClassifier(natives *manifest.NativesMap, host Host) (string, bool) {
	if natives == nil {
		return "", false
	}

	var key string
	switch host.OS {
	case Windows:
		key = natives.Windows
	case Linux:
		key = natives.Linux
	case OSX:
		key = natives.OSX
	}
	if key == "" {
		return "", false
	}
	return key, true
}
