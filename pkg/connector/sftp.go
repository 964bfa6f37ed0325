package connector

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/sammwy/mcbootstrap-go/pkg/checksum"
)

const defaultSFTPPort = 22

// SFTPConnector reads and writes artifacts against a private SFTP mirror,
// used when a LaunchConfig's ArtifactSource points at an sftp:// URI instead
// of the default Mojang endpoints.
type SFTPConnector struct {
	Host     string
	Port     int
	BasePath string
	Username string
	Password string

	config *ssh.ClientConfig

	mu     sync.Mutex
	client *sftp.Client
	conn   *ssh.Client
}

func init() {
	Register("sftp", newSFTPConnector)
}

func newSFTPConnector(uri string) (Connector, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("sftp connector: invalid uri: %w", err)
	}

	port := defaultSFTPPort
	if p := parsed.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	username, password := "", ""
	if parsed.User != nil {
		username = parsed.User.Username()
		password, _ = parsed.User.Password()
	}

	return &SFTPConnector{
		Host:     parsed.Hostname(),
		Port:     port,
		BasePath: parsed.Path,
		Username: username,
		Password: password,
		config: &ssh.ClientConfig{
			User:            username,
			Auth:            []ssh.AuthMethod{ssh.Password(password)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		},
	}, nil
}

func (c *SFTPConnector) Scheme() string { return "sftp" }

func (c *SFTPConnector) URI() string {
	if c.Username != "" {
		return fmt.Sprintf("sftp://%s@%s:%d%s", url.QueryEscape(c.Username), c.Host, c.Port, c.BasePath)
	}
	return fmt.Sprintf("sftp://%s:%d%s", c.Host, c.Port, c.BasePath)
}

func (c *SFTPConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", c.Host, c.Port), c.config)
	if err != nil {
		return fmt.Errorf("sftp connector: dial: %w", err)
	}

	client, err := sftp.NewClient(conn,
		sftp.UseConcurrentWrites(true),
		sftp.UseConcurrentReads(true),
		sftp.MaxPacket(1<<15),
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("sftp connector: new client: %w", err)
	}

	c.conn = conn
	c.client = client
	return nil
}

func (c *SFTPConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.client != nil {
		err = c.client.Close()
		c.client = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return err
}

func (c *SFTPConnector) remotePath(p string) string {
	clean := strings.TrimLeft(p, "/")
	if c.BasePath != "" {
		clean = strings.TrimLeft(c.BasePath, "/") + "/" + clean
	}
	return "/" + clean
}

// DownloadTo streams a remote artifact through a local temp file and renames
// it into place, mirroring HTTPConnector's atomicity contract.
func (c *SFTPConnector) DownloadTo(ctx context.Context, remotePath, localTarget string) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return fmt.Errorf("sftp connector: not connected")
	}

	rf, err := client.Open(c.remotePath(remotePath))
	if err != nil {
		return fmt.Errorf("sftp connector: open %s: %w", remotePath, err)
	}
	defer rf.Close()

	if err := os.MkdirAll(filepath.Dir(localTarget), 0o755); err != nil {
		return fmt.Errorf("sftp connector: mkdir for %s: %w", localTarget, err)
	}

	tmp := localTarget + ".part"
	lf, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("sftp connector: open tmp %s: %w", tmp, err)
	}

	if _, err := io.Copy(lf, rf); err != nil {
		lf.Close()
		os.Remove(tmp)
		return fmt.Errorf("sftp connector: write %s: %w", tmp, err)
	}
	if err := lf.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, localTarget)
}

func (c *SFTPConnector) ReadFileBytes(ctx context.Context, remotePath string) ([]byte, error) {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return nil, fmt.Errorf("sftp connector: not connected")
	}

	f, err := client.Open(c.remotePath(remotePath))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (c *SFTPConnector) SendFile(ctx context.Context, remotePath, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	return c.SendFileFromBytes(ctx, remotePath, data)
}

// SendFileFromBytes writes through a remote .part file and POSIX-renames it
// into place, matching the promotion pattern used for local downloads.
func (c *SFTPConnector) SendFileFromBytes(ctx context.Context, remotePath string, data []byte) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return fmt.Errorf("sftp connector: not connected")
	}

	full := c.remotePath(remotePath)
	if err := client.MkdirAll(path.Dir(full)); err != nil {
		return fmt.Errorf("sftp connector: mkdirAll %s: %w", path.Dir(full), err)
	}

	tmp := full + ".part"
	_ = client.Remove(tmp)

	rf, err := client.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("sftp connector: open remote tmp: %w", err)
	}
	if _, err := rf.Write(data); err != nil {
		rf.Close()
		_ = client.Remove(tmp)
		return fmt.Errorf("sftp connector: write: %w", err)
	}
	if err := rf.Close(); err != nil {
		_ = client.Remove(tmp)
		return fmt.Errorf("sftp connector: close remote tmp: %w", err)
	}

	if err := client.PosixRename(tmp, full); err != nil {
		_ = client.Remove(full)
		if err2 := client.Rename(tmp, full); err2 != nil {
			_ = client.Remove(tmp)
			return fmt.Errorf("sftp connector: rename: %w (fallback: %v)", err, err2)
		}
	}
	return nil
}

func (c *SFTPConnector) HasFile(ctx context.Context, remotePath string) bool {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()
	if client == nil {
		return false
	}
	_, err := client.Stat(c.remotePath(remotePath))
	return err == nil
}

func (c *SFTPConnector) HasFileWithChecksum(ctx context.Context, remotePath string, kind ChecksumType, want string) bool {
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
