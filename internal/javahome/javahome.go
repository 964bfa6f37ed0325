// Package javahome resolves the java executable the bootstrap engine spawns
// the client process with, addressing the specification's open question
// about hard-coding "java" from PATH: an explicit override is preferred when
// set, falling back to PATH and then a handful of per-platform heuristics.
package javahome

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const discoveryTimeout = 8 * time.Second

// Resolve returns the java executable to launch with. If override is
// non-empty it is validated and returned as-is. Otherwise PATH is searched,
// then platform-specific install locations.
func Resolve(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("javahome: configured java path %q: %w", override, err)
		}
		return override, nil
	}

	bin := "java"
	if runtime.GOOS == "windows" {
		bin = "java.exe"
	}

	if p, err := exec.LookPath(bin); err == nil {
		return p, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout)
	defer cancel()

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = darwinCandidates(ctx)
	case "linux":
		candidates = linuxCandidates()
	case "windows":
		candidates = windowsCandidates()
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}

	return "", fmt.Errorf("javahome: no java executable found on PATH or in known install locations")
}

func darwinCandidates(ctx context.Context) []string {
	var homes []string

	globs := []string{
		"/Library/Java/JavaVirtualMachines/*/Contents/Home",
	}
	if home := os.Getenv("HOME"); home != "" {
		globs = append(globs, filepath.Join(home, "Library/Java/JavaVirtualMachines/*/Contents/Home"))
	}

	if prefix := brewPrefix(ctx); prefix != "" {
		globs = append(globs,
			filepath.Join(prefix, "opt", "openjdk", "libexec", "openjdk.jdk", "Contents", "Home"),
			filepath.Join(prefix, "opt", "openjdk@*", "libexec", "openjdk.jdk", "Contents", "Home"),
		)
	}

	for _, g := range globs {
		if matches, _ := filepath.Glob(g); len(matches) > 0 {
			homes = append(homes, matches...)
		}
	}

	if out := javaHomeVerbose(ctx); out != "" {
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(line)
			if i := strings.LastIndex(line, "/Contents/Home"); i != -1 {
				start := strings.LastIndex(line[:i], " ")
				if start == -1 {
					start = 0
				}
				if h := strings.TrimSpace(line[start : i+len("/Contents/Home")]); h != "" {
					homes = append(homes, h)
				}
			}
		}
	}

	cands := make([]string, 0, len(homes))
	for _, h := range homes {
		cands = append(cands, filepath.Join(h, "bin", "java"))
	}
	return cands
}

func brewPrefix(ctx context.Context) string {
	if out, err := exec.CommandContext(ctx, "brew", "--prefix").Output(); err == nil {
		return strings.TrimSpace(string(out))
	}
	if fi, err := os.Stat("/opt/homebrew"); err == nil && fi.IsDir() {
		return "/opt/homebrew"
	}
	return "/usr/local"
}

func javaHomeVerbose(ctx context.Context) string {
	out, _ := exec.CommandContext(ctx, "/usr/libexec/java_home", "-V").CombinedOutput()
	return string(out)
}

func linuxCandidates() []string {
	var cands []string
	if out, err := exec.Command("update-alternatives", "--list", "java").Output(); err == nil {
		for _, l := range strings.Split(strings.TrimSpace(string(out)), "\n") {
			if l = strings.TrimSpace(l); l != "" {
				cands = append(cands, l)
			}
		}
	}
	for _, g := range []string{"/usr/lib/jvm/*/bin/java", "/usr/java/*/bin/java"} {
		if matches, _ := filepath.Glob(g); len(matches) > 0 {
			cands = append(cands, matches...)
		}
	}
	return cands
}

func windowsCandidates() []string {
	var cands []string
	if jh := os.Getenv("JAVA_HOME"); jh != "" {
		cands = append(cands, filepath.Join(jh, "bin", "java.exe"))
	}
	for _, root := range []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)")} {
		if root == "" {
			continue
		}
		for _, g := range []string{
			filepath.Join(root, "Java", "*", "bin", "java.exe"),
			filepath.Join(root, "Eclipse Adoptium", "jdk-*", "bin", "java.exe"),
		} {
			if matches, _ := filepath.Glob(g); len(matches) > 0 {
				cands = append(cands, matches...)
			}
		}
	}
	return cands
}
