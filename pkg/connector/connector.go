// Package connector generalizes the artifact source the bootstrap engine
// downloads from. The default source is the official Mojang HTTP endpoints,
// but an operator may point an installation at a private SFTP or local-file
// mirror with the same directory layout.
package connector

import (
	"context"
	"fmt"
	"strings"
)

// ChecksumType names a supported content-hash algorithm for HasFileWithChecksum.
type ChecksumType int

const (
	ChecksumSHA1 ChecksumType = iota + 1
	ChecksumSHA256
)

// Connector reads and writes named artifacts against one backing store.
// DownloadTo and ReadFileBytes are the operations the bootstrap engine's
// fetch phases use; SendFile/SendFileFromBytes write to the backing store
// where the implementation supports writes.
type Connector interface {
	Scheme() string
	URI() string

	Connect(ctx context.Context) error
	Close() error

	// DownloadTo fetches remotePath and writes it to localTarget, creating
	// parent directories as needed and never leaving a partial file behind
	// on failure.
	DownloadTo(ctx context.Context, remotePath, localTarget string) error

	ReadFileBytes(ctx context.Context, remotePath string) ([]byte, error)
	SendFile(ctx context.Context, remotePath, localPath string) error
	SendFileFromBytes(ctx context.Context, remotePath string, data []byte) error

	HasFile(ctx context.Context, remotePath string) bool
	HasFileWithChecksum(ctx context.Context, remotePath string, kind ChecksumType, checksum string) bool
}

// Factory constructs a Connector bound to a given URI.
type Factory func(uri string) (Connector, error)

var registry = map[string]Factory{}

// Register associates a URI scheme with a Connector factory. Called from each
// connector implementation's init().
func Register(scheme string, factory Factory) {
	registry[scheme] = factory
}

// FromURI dispatches to the registered Factory whose scheme prefixes uri.
func FromURI(uri string) (Connector, error) {
	for scheme, factory := range registry {
		if strings.HasPrefix(uri, scheme+"://") {
			return factory(uri)
		}
	}
	return nil, fmt.Errorf("connector: no registered scheme for uri %q", uri)
}
