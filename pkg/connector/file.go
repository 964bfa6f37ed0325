package connector

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sammwy/mcbootstrap-go/pkg/checksum"
)

// FileConnector reads and writes artifacts rooted at a local directory. It
// serves as an artifact source for installations mirrored onto local storage.
type FileConnector struct {
	Root string
}

func init() {
	Register("file", newFileConnector)
}

func newFileConnector(uri string) (Connector, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("file connector: invalid uri: %w", err)
	}

	root := parsed.Host + parsed.Path
	if strings.HasPrefix(root, "./") {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(pwd, strings.TrimPrefix(root, "./"))
	}

	return &FileConnector{Root: root}, nil
}

func (c *FileConnector) Scheme() string { return "file" }
func (c *FileConnector) URI() string    { return "file://" + c.Root }

func (c *FileConnector) Connect(ctx context.Context) error { return nil }
func (c *FileConnector) Close() error                       { return nil }

func (c *FileConnector) resolve(remotePath string) string {
	return filepath.Join(c.Root, remotePath)
}

func (c *FileConnector) DownloadTo(ctx context.Context, remotePath, localTarget string) error {
	if err := os.MkdirAll(filepath.Dir(localTarget), 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(c.resolve(remotePath))
	if err != nil {
		return err
	}

	tmp := localTarget + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, localTarget)
}

func (c *FileConnector) ReadFileBytes(ctx context.Context, remotePath string) ([]byte, error) {
	return os.ReadFile(c.resolve(remotePath))
}

func (c *FileConnector) SendFile(ctx context.Context, remotePath, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	return c.SendFileFromBytes(ctx, remotePath, data)
}

func (c *FileConnector) SendFileFromBytes(ctx context.Context, remotePath string, data []byte) error {
	full := c.resolve(remotePath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("file connector: mkdir: %w", err)
	}
	return os.WriteFile(full, data, 0o644)
}

func (c *FileConnector) HasFile(ctx context.Context, remotePath string) bool {
	_, err := os.Stat(c.resolve(remotePath))
	return err == nil
}

func (c *FileConnector) HasFileWithChecksum(ctx context.Context, remotePath string, kind ChecksumType, want string) bool {
	data, err := c.ReadFileBytes(ctx, remotePath)
	if err != nil {
		return false
	}
	switch kind {
	case ChecksumSHA1:
		return checksum.BytesSHA1(data) == want
	case ChecksumSHA256:
		return checksum.BytesSHA256(data) == want
	default:
		return false
	}
}
