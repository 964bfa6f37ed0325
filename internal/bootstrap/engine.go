// Package bootstrap implements the central state machine: initialize, diff,
// download, re-initialize, launch. It owns the LaunchState, the artifact
// connector, and the worker pool; it lends DownloadState back to callers for
// observation.
package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/sammwy/mcbootstrap-go/internal/catalog"
	"github.com/sammwy/mcbootstrap-go/internal/fetch"
	"github.com/sammwy/mcbootstrap-go/internal/javahome"
	"github.com/sammwy/mcbootstrap-go/internal/launchcmd"
	"github.com/sammwy/mcbootstrap-go/internal/layout"
	"github.com/sammwy/mcbootstrap-go/internal/manifest"
	"github.com/sammwy/mcbootstrap-go/internal/rules"
	"github.com/sammwy/mcbootstrap-go/pkg/connector"
)

const (
	// DefaultWorkerCount is the size of the worker pool used for the
	// parallel library/asset download phases.
	DefaultWorkerCount = 8

	VersionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
	ResourcesBaseURL   = "https://resources.download.minecraft.net"
	LibrariesBaseURL   = "https://libraries.minecraft.net"

	// mirrorManifestPath is the path the engine requests the manifest at
	// when ArtifactSource points at a private mirror instead of Mojang.
	// The mirror's own connector resolves it against its own base, the same
	// way HTTPConnector.resolve does for a relative path.
	mirrorManifestPath = "version_manifest_v2.json"
)

// Engine is the bootstrap state machine for a single LaunchConfig.
type Engine struct {
	config *LaunchConfig
	paths  layout.Paths
	logger *slog.Logger

	state   *LaunchState
	catalog *catalog.Catalog

	// source fetches the manifest, version descriptor, asset index, and
	// client jar. librarySource and assetSource fetch library artifacts and
	// asset objects respectively. With the default Mojang setup these are
	// three distinct HTTPConnectors, each carrying its own endpoint base;
	// with a configured ArtifactSource they are the same mirror connector,
	// and every path handed to them is relative so the connector resolves it
	// against its own base rather than the engine hardcoding a host.
	source        connector.Connector
	librarySource connector.Connector
	assetSource   connector.Connector

	workers int
	host    rules.Host

	mu         sync.Mutex
	descriptor *manifest.VersionDescriptor
	assetIndex *manifest.AssetIndex
}

// NewEngine validates config and constructs an Engine bound to it. Fails
// with a *ConfigError on an empty username or missing mc_dir.
func NewEngine(config *LaunchConfig, logger *slog.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	manifestPath, source, librarySource, assetSource, err := resolveSources(config.ArtifactSource)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	for _, c := range uniqueConnectors(source, librarySource, assetSource) {
		if err := c.Connect(context.Background()); err != nil {
			return nil, &NetworkError{URL: c.URI(), Err: err}
		}
	}

	cat := catalog.New(manifestPath, httpGetter(source), logger)

	return &Engine{
		config:        config,
		paths:         config.Paths(),
		logger:        logger,
		state:         newLaunchState(),
		catalog:       cat,
		source:        source,
		librarySource: librarySource,
		assetSource:   assetSource,
		workers:       DefaultWorkerCount,
		host:          rules.DetectHost(),
	}, nil
}

// resolveSources builds the manifest path and the three connectors the
// engine fetches through. With no ArtifactSource configured, each concern
// binds to its own Mojang endpoint base. With one configured, all three
// concerns share that single mirror connector and every fetch the engine
// issues against it uses a path relative to the mirror's root.
func resolveSources(uri string) (manifestPath string, source, librarySource, assetSource connector.Connector, err error) {
	if uri == "" {
		return VersionManifestURL,
			connector.NewHTTPConnector("", nil),
			connector.NewHTTPConnector(LibrariesBaseURL, nil),
			connector.NewHTTPConnector(ResourcesBaseURL, nil),
			nil
	}

	mirror, err := connector.FromURI(uri)
	if err != nil {
		return "", nil, nil, nil, err
	}
	return mirrorManifestPath, mirror, mirror, mirror, nil
}

// uniqueConnectors deduplicates by identity so a mirror shared across all
// three roles is connected and closed exactly once.
func uniqueConnectors(cs ...connector.Connector) []connector.Connector {
	seen := make(map[connector.Connector]bool, len(cs))
	out := make([]connector.Connector, 0, len(cs))
	for _, c := range cs {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// httpGetter adapts a connector's ReadFileBytes into the catalog's
// http-shaped fetch function, so the manifest cache goes through the same
// configured artifact source as everything else.
func httpGetter(source connector.Connector) func(ctx context.Context, url string) ([]byte, error) {
	return func(ctx context.Context, url string) ([]byte, error) {
		return source.ReadFileBytes(ctx, url)
	}
}

// State returns a snapshot of the current LaunchState.
func (e *Engine) State() Snapshot {
	return e.state.Snapshot()
}

// Initialize resets LaunchState, provisions directories, loads whatever
// local descriptor/asset index exist, and diffs disk against them.
func (e *Engine) Initialize(ctx context.Context) error {
	e.state.Reset()

	if err := layout.EnsureDirectories(e.paths); err != nil {
		wrapped := &IOError{Path: e.paths.MCDir, Err: err}
		e.state.failInitialize(wrapped)
		return wrapped
	}

	e.mu.Lock()
	e.descriptor = e.loadLocalDescriptor()
	if e.descriptor != nil {
		e.assetIndex = e.loadLocalAssetIndex(e.descriptor.AssetIndex.ID)
	}
	descriptor := e.descriptor
	assetIndex := e.assetIndex
	e.mu.Unlock()

	if descriptor == nil {
		e.state.addMissingFile(SentinelVersionJSON)
	}

	jarPath := e.paths.VersionJarPath(e.config.VersionID)
	if !e.fileExists(jarPath) ||
		(descriptor != nil && e.config.VerifyChecksums && !fetch.VerifySHA1(jarPath, descriptor.Downloads.Client.SHA1)) {
		e.state.addMissingFile(SentinelClientJar)
	}

	if assetIndex == nil {
		e.state.addMissingFile(SentinelAssetIndex)
	}

	if descriptor != nil {
		for _, lib := range descriptor.Libraries {
			e.diffLibrary(lib)
		}
	}

	if assetIndex != nil {
		for name, obj := range assetIndex.Objects {
			if !e.fileExists(e.paths.AssetObjectPath(obj.Hash)) {
				e.state.addMissingAsset(name)
				continue
			}
			if e.config.VerifyChecksums && !fetch.VerifySHA1(e.paths.AssetObjectPath(obj.Hash), obj.Hash) {
				e.state.addMissingAsset(name)
			}
		}
	}

	total := e.state.totalMissing()
	status := "up to date"
	if total > 0 {
		status = fmt.Sprintf("%d files missing", total)
	}
	e.state.finalize(status)
	e.logger.Info("bootstrap: initialized", "version", e.config.VersionID, "missing", total)
	return nil
}

func (e *Engine) diffLibrary(lib manifest.Library) {
	if !rules.Admits(lib.Rules, e.host) {
		return
	}

	if artifact := lib.Downloads.Artifact; artifact != nil {
		path := e.paths.LibraryPath(artifact.Path)
		if !e.fileExists(path) || (e.config.VerifyChecksums && !fetch.VerifySHA1(path, artifact.SHA1)) {
			e.state.addMissingLibrary(artifact.Path)
		}
	}

	if classifier, ok := rules.NativeClassifier(lib.Natives, e.host); ok {
		if artifact := lib.Downloads.Classifiers[classifier]; artifact != nil {
			path := e.paths.LibraryPath(artifact.Path)
			if !e.fileExists(path) || (e.config.VerifyChecksums && !fetch.VerifySHA1(path, artifact.SHA1)) {
				e.state.addMissingLibrary(artifact.Path)
			}
		}
	}
}

func (e *Engine) fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (e *Engine) loadLocalDescriptor() *manifest.VersionDescriptor {
	path := e.paths.VersionJSONPath(e.config.VersionID)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var d manifest.VersionDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		e.logger.Warn("bootstrap: failed to parse local version descriptor", "path", path, "err", err)
		return nil
	}
	return &d
}

func (e *Engine) loadLocalAssetIndex(id string) *manifest.AssetIndex {
	if id == "" {
		return nil
	}
	data, err := os.ReadFile(e.paths.AssetIndexPath(id))
	if err != nil {
		return nil
	}
	var a manifest.AssetIndex
	if err := json.Unmarshal(data, &a); err != nil {
		e.logger.Warn("bootstrap: failed to parse local asset index", "id", id, "err", err)
		return nil
	}
	return &a
}

// Download runs a single session against the engine's worker pool and
// returns a live DownloadState immediately; the caller observes progress via
// its callbacks or WaitForCompletion.
func (e *Engine) Download(ctx context.Context) (*DownloadState, error) {
	if !e.state.Initialized() {
		return nil, &PreconditionError{Reason: "download() called before initialize()"}
	}

	ds := newDownloadState()
	ctx, cancel := context.WithCancel(ctx)
	ds.cancel = cancel

	go e.runDownload(ctx, ds)
	return ds, nil
}

func (e *Engine) runDownload(ctx context.Context, ds *DownloadState) {
	defer ds.markDone()

	ds.setStatus(StatusDownloading)

	snap := e.state.Snapshot()
	ds.setTotalFiles(len(snap.MissingLibraries) + len(snap.MissingAssets))

	if err := e.downloadSequentialPhases(ctx, ds); err != nil {
		ds.setStatus(StatusFailed)
		e.state.setLastError(err)
		ds.notifyError(err)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.downloadLibraries(ctx, ds)
	}()
	go func() {
		defer wg.Done()
		e.downloadAssets(ctx, ds)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return
	}

	ds.setStatus(StatusCompleted)

	if err := e.Initialize(ctx); err != nil {
		e.logger.Warn("bootstrap: re-initialize after download failed", "err", err)
	}
}

// downloadSequentialPhases handles the descriptor, asset index, and client
// jar fetches, which must run in order because later phases consume earlier
// outputs. Each need is re-derived from live engine/filesystem state rather
// than a pre-fetch snapshot. A descriptor or asset index fetched here is
// diffed on the spot, so the libraries and assets it lists join the missing
// sets and the session's file total before the parallel phases snapshot them.
func (e *Engine) downloadSequentialPhases(ctx context.Context, ds *DownloadState) error {
	e.mu.Lock()
	descriptor := e.descriptor
	e.mu.Unlock()

	if descriptor == nil {
		ds.incrementTotal()
		ds.setCurrentFile(SentinelVersionJSON)

		entry, err := e.catalog.FindEntry(ctx, e.config.VersionID)
		if err != nil {
			if errors.Is(err, catalog.ErrVersionNotFound) {
				return &VersionNotFoundError{VersionID: e.config.VersionID}
			}
			return &NetworkError{URL: e.catalog.ManifestURL, Err: err}
		}

		data, err := e.source.ReadFileBytes(ctx, entry.URL)
		if err != nil {
			return &NetworkError{URL: entry.URL, Err: err}
		}

		path := e.paths.VersionJSONPath(e.config.VersionID)
		if err := layout.EnsureParents(path); err != nil {
			return &IOError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return &IOError{Path: path, Err: err}
		}

		var parsed manifest.VersionDescriptor
		if err := json.Unmarshal(data, &parsed); err != nil {
			return &ParseError{Document: path, Err: err}
		}

		e.mu.Lock()
		e.descriptor = &parsed
		e.mu.Unlock()
		descriptor = &parsed

		before := len(e.state.Snapshot().MissingLibraries)
		for _, lib := range parsed.Libraries {
			e.diffLibrary(lib)
		}
		for i := before; i < len(e.state.Snapshot().MissingLibraries); i++ {
			ds.incrementTotal()
		}

		ds.addTotalBytes(int64(len(data)))
		ds.addDownloadedBytes(int64(len(data)))
		e.state.removeMissingFile(SentinelVersionJSON)
		ds.incrementCompleted()
	}

	e.mu.Lock()
	assetIndex := e.assetIndex
	e.mu.Unlock()

	if assetIndex == nil {
		ds.incrementTotal()
		ds.setCurrentFile(SentinelAssetIndex)

		data, err := e.source.ReadFileBytes(ctx, descriptor.AssetIndex.URL)
		if err != nil {
			return &NetworkError{URL: descriptor.AssetIndex.URL, Err: err}
		}

		path := e.paths.AssetIndexPath(descriptor.AssetIndex.ID)
		if err := layout.EnsureParents(path); err != nil {
			return &IOError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return &IOError{Path: path, Err: err}
		}

		var parsed manifest.AssetIndex
		if err := json.Unmarshal(data, &parsed); err != nil {
			return &ParseError{Document: path, Err: err}
		}

		e.mu.Lock()
		e.assetIndex = &parsed
		e.mu.Unlock()

		for name, obj := range parsed.Objects {
			if !e.fileExists(e.paths.AssetObjectPath(obj.Hash)) {
				e.state.addMissingAsset(name)
				ds.incrementTotal()
			}
		}

		ds.addTotalBytes(int64(len(data)))
		ds.addDownloadedBytes(int64(len(data)))
		e.state.removeMissingFile(SentinelAssetIndex)
		ds.incrementCompleted()
	}

	jarPath := e.paths.VersionJarPath(e.config.VersionID)
	needsJar := !e.fileExists(jarPath) ||
		(e.config.VerifyChecksums && !fetch.VerifySHA1(jarPath, descriptor.Downloads.Client.SHA1))

	if needsJar {
		ds.incrementTotal()
		ds.addTotalBytes(int64(descriptor.Downloads.Client.Size))
		ds.setCurrentFile(SentinelClientJar)

		if err := e.source.DownloadTo(ctx, descriptor.Downloads.Client.URL, jarPath); err != nil {
			return &NetworkError{URL: descriptor.Downloads.Client.URL, Err: err}
		}

		ds.addDownloadedBytes(fileSize(jarPath, descriptor.Downloads.Client.Size))
		e.state.removeMissingFile(SentinelClientJar)
		ds.incrementCompleted()
	}

	return nil
}

func (e *Engine) downloadLibraries(ctx context.Context, ds *DownloadState) {
	snap := e.state.Snapshot()
	if len(snap.MissingLibraries) == 0 {
		return
	}

	e.mu.Lock()
	sizes := librarySizeIndex(e.descriptor)
	e.mu.Unlock()

	for _, path := range snap.MissingLibraries {
		ds.addTotalBytes(int64(sizes[path]))
	}

	jobs := make(chan string, len(snap.MissingLibraries))
	for _, path := range snap.MissingLibraries {
		jobs <- path
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for artifactPath := range jobs {
				if ctx.Err() != nil {
					return
				}
				e.downloadOneLibrary(ctx, ds, artifactPath, sizes[artifactPath])
			}
		}()
	}
	wg.Wait()
}

// librarySizeIndex maps every admitted artifact path in descriptor to its
// declared size, covering both main artifacts and native classifiers.
func librarySizeIndex(descriptor *manifest.VersionDescriptor) map[string]uint64 {
	sizes := make(map[string]uint64)
	if descriptor == nil {
		return sizes
	}
	for _, lib := range descriptor.Libraries {
		if artifact := lib.Downloads.Artifact; artifact != nil {
			sizes[artifact.Path] = artifact.Size
		}
		for _, artifact := range lib.Downloads.Classifiers {
			if artifact != nil {
				sizes[artifact.Path] = artifact.Size
			}
		}
	}
	return sizes
}

func (e *Engine) downloadOneLibrary(ctx context.Context, ds *DownloadState, artifactPath string, expectedSize uint64) {
	ds.setCurrentFile(artifactPath)

	target := e.paths.LibraryPath(artifactPath)
	if err := e.librarySource.DownloadTo(ctx, artifactPath, target); err != nil {
		e.logger.Warn("bootstrap: library download failed", "path", artifactPath, "err", err)
		ds.recordArtifactFailure(&ArtifactError{Path: artifactPath, Err: err})
		ds.incrementFailed()
		return
	}

	ds.addDownloadedBytes(fileSize(target, expectedSize))
	e.state.removeMissingLibrary(artifactPath)
	ds.incrementCompleted()
}

// fileSize returns the actual on-disk size of path, falling back to a
// declared size if the stat fails (which should not happen right after a
// successful download, but keeps progress reporting honest either way).
func fileSize(path string, fallback uint64) int64 {
	if info, err := os.Stat(path); err == nil {
		return info.Size()
	}
	return int64(fallback)
}

func (e *Engine) downloadAssets(ctx context.Context, ds *DownloadState) {
	snap := e.state.Snapshot()
	if len(snap.MissingAssets) == 0 {
		return
	}

	e.mu.Lock()
	index := e.assetIndex
	e.mu.Unlock()
	if index == nil {
		return
	}

	for _, name := range snap.MissingAssets {
		if obj, ok := index.Objects[name]; ok {
			ds.addTotalBytes(int64(obj.Size))
		}
	}

	jobs := make(chan string, len(snap.MissingAssets))
	for _, name := range snap.MissingAssets {
		jobs <- name
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				if ctx.Err() != nil {
					return
				}
				obj, ok := index.Objects[name]
				if !ok {
					continue
				}
				e.downloadOneAsset(ctx, ds, name, obj)
			}
		}()
	}
	wg.Wait()
}

func (e *Engine) downloadOneAsset(ctx context.Context, ds *DownloadState, name string, obj manifest.AssetObject) {
	ds.setCurrentFile(name)

	target := e.paths.AssetObjectPath(obj.Hash)

	if err := e.assetSource.DownloadTo(ctx, obj.ObjectPath(), target); err != nil {
		e.logger.Warn("bootstrap: asset download failed", "name", name, "err", err)
		ds.recordArtifactFailure(&ArtifactError{Path: name, Err: err})
		ds.incrementFailed()
		return
	}

	ds.addDownloadedBytes(fileSize(target, obj.Size))
	e.state.removeMissingAsset(name)
	ds.incrementCompleted()
}

// Run builds the launch argv and spawns the child Java process, requiring
// can_launch to hold.
func (e *Engine) Run(ctx context.Context) (*exec.Cmd, error) {
	if !e.state.CanLaunch() {
		return nil, &PreconditionError{Reason: "run() called while can_launch is false"}
	}

	e.mu.Lock()
	descriptor := e.descriptor
	e.mu.Unlock()
	if descriptor == nil {
		return nil, &PreconditionError{Reason: "run() called without a loaded version descriptor"}
	}

	javaPath, err := javahome.Resolve(e.config.JavaPath)
	if err != nil {
		return nil, err
	}

	argv := launchcmd.BuildArgv(launchcmd.Input{
		JavaPath:     javaPath,
		MaxMemoryMB:  e.config.MaxMemoryMB,
		MinMemoryMB:  e.config.MinMemoryMB,
		JVMArgs:      e.config.jvmArgs,
		GameArgs:     e.config.gameArgs,
		ClientJar:    e.paths.VersionJarPath(e.config.VersionID),
		LibrariesDir: e.paths.LibrariesDir,
		Libraries:    descriptor.Libraries,
		MainClass:    descriptor.MainClass,
		Username:     e.config.Username,
		VersionID:    e.config.VersionID,
		VersionType:  descriptor.Type,
		MCDir:        e.paths.MCDir,
		AssetsDir:    e.paths.AssetsDir,
		AssetIndexID: descriptor.AssetIndex.ID,
		Host:         e.host,
	})

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.paths.MCDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, &IOError{Path: argv[0], Err: err}
	}

	e.logger.Info("bootstrap: launched", "version", e.config.VersionID, "pid", cmd.Process.Pid)
	return cmd, nil
}

// AvailableVersions returns the union of locally installed and remotely
// published Minecraft versions.
func (e *Engine) AvailableVersions(ctx context.Context) ([]catalog.MinecraftVersion, error) {
	return e.catalog.AvailableVersions(ctx, e.paths.MCDir), nil
}

// Close releases every distinct connector's resources.
func (e *Engine) Close() error {
	var errs []error
	for _, c := range uniqueConnectors(e.source, e.librarySource, e.assetSource) {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
