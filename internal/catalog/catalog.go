// Package catalog enumerates locally installed Minecraft versions and
// fetches the upstream version manifest, caching it for a bounded TTL.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sammwy/mcbootstrap-go/internal/manifest"
)

const cacheTTL = 5 * time.Minute

// ErrVersionNotFound is wrapped into the error FindEntry returns when the
// manifest fetch itself succeeded but no entry matched the requested id.
// Callers use errors.Is to tell this apart from a transport/parse failure.
var ErrVersionNotFound = errors.New("catalog: version not found")

// MinecraftVersion describes one entry in the combined local+remote catalog.
type MinecraftVersion struct {
	ID          string
	Type        string
	ReleaseTime string
	URL         string
	IsLocal     bool
	LocalPath   string
}

// Catalog is an explicit handle owning one manifest cache, rather than a
// package-level global populated by init(). NewEngine constructs one per
// engine, so separate engines do not share a cache.
type Catalog struct {
	ManifestURL string
	HTTPGet     func(ctx context.Context, url string) ([]byte, error)
	Logger      *slog.Logger

	mu         sync.Mutex
	cached     *manifest.VersionManifest
	cachedAt   time.Time
}

// New constructs a Catalog that fetches manifestURL via get.
func New(manifestURL string, get func(ctx context.Context, url string) ([]byte, error), logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{ManifestURL: manifestURL, HTTPGet: get, Logger: logger}
}

// VersionManifest returns the cached manifest if it is younger than the TTL,
// otherwise fetches, caches, and returns a fresh one. Concurrent callers may
// race to refetch; the last writer wins and duplicate fetches are acceptable.
func (c *Catalog) VersionManifest(ctx context.Context) (*manifest.VersionManifest, error) {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.cachedAt) < cacheTTL {
		m := c.cached
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	data, err := c.HTTPGet(ctx, c.ManifestURL)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch manifest: %w", err)
	}

	var m manifest.VersionManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: parse manifest: %w", err)
	}

	c.mu.Lock()
	c.cached = &m
	c.cachedAt = time.Now()
	c.mu.Unlock()

	return &m, nil
}

// ClearCache discards the cached manifest, forcing the next call to refetch.
func (c *Catalog) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.cachedAt = time.Time{}
}

// LocalVersions scans mcDir/versions for installed version descriptors.
// Parse failures are logged and skipped rather than failing the whole scan.
func (c *Catalog) LocalVersions(mcDir string) []MinecraftVersion {
	versionsDir := filepath.Join(mcDir, "versions")
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return nil
	}

	var out []MinecraftVersion
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		jsonPath := filepath.Join(versionsDir, id, id+".json")

		data, err := os.ReadFile(jsonPath)
		if err != nil {
			continue
		}

		var descriptor manifest.VersionDescriptor
		if err := json.Unmarshal(data, &descriptor); err != nil {
			c.Logger.Warn("catalog: failed to parse local version", "version", id, "err", err)
			continue
		}

		versionType := descriptor.Type
		if versionType == "" {
			versionType = "unknown"
		}

		out = append(out, MinecraftVersion{
			ID:          id,
			Type:        versionType,
			ReleaseTime: descriptor.ReleaseTime,
			IsLocal:     true,
			LocalPath:   jsonPath,
		})
	}
	return out
}

// RemoteVersions fetches the cached manifest and returns every entry.
func (c *Catalog) RemoteVersions(ctx context.Context) ([]MinecraftVersion, error) {
	m, err := c.VersionManifest(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MinecraftVersion, 0, len(m.Versions))
	for _, v := range m.Versions {
		out = append(out, MinecraftVersion{
			ID:          v.ID,
			Type:        v.Type,
			ReleaseTime: v.ReleaseTime,
			URL:         v.URL,
			IsLocal:     false,
		})
	}
	return out, nil
}

// AvailableVersions returns the union of local and remote versions, locals
// first in directory-scan order, then remotes not already present locally.
// A remote-fetch failure degrades to locals-only rather than failing the call.
func (c *Catalog) AvailableVersions(ctx context.Context, mcDir string) []MinecraftVersion {
	locals := c.LocalVersions(mcDir)

	present := make(map[string]bool, len(locals))
	for _, v := range locals {
		present[v.ID] = true
	}

	remotes, err := c.RemoteVersions(ctx)
	if err != nil {
		c.Logger.Warn("catalog: failed to fetch remote versions, using local only", "err", err)
		return locals
	}

	out := make([]MinecraftVersion, len(locals), len(locals)+len(remotes))
	copy(out, locals)
	for _, v := range remotes {
		if !present[v.ID] {
			out = append(out, v)
		}
	}
	sortByReleaseTimeDesc(out)
	return out
}

// FindEntry looks up versionID in the cached/fetched manifest.
func (c *Catalog) FindEntry(ctx context.Context, versionID string) (*manifest.VersionEntry, error) {
	m, err := c.VersionManifest(ctx)
	if err != nil {
		return nil, err
	}
	for i := range m.Versions {
		if m.Versions[i].ID == versionID {
			return &m.Versions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrVersionNotFound, versionID)
}

// sortByReleaseTimeDesc orders versions newest first, matching the spec's
// consumer-side sort guidance for the arbitrarily-ordered upstream manifest.
func sortByReleaseTimeDesc(versions []MinecraftVersion) {
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].ReleaseTime > versions[j].ReleaseTime
	})
}
