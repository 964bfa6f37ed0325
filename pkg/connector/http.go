package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sammwy/mcbootstrap-go/pkg/checksum"
)

const httpConnectTimeoutHeader = "User-Agent"

// HTTPConnector fetches artifacts from an HTTP(S) origin. This is the
// default connector the bootstrap engine binds to the three Mojang endpoint
// bases.
type HTTPConnector struct {
	BaseURL string
	Client  *http.Client
}

func init() {
	Register("http", newHTTPConnector)
	Register("https", newHTTPConnector)
}

func newHTTPConnector(uri string) (Connector, error) {
	if _, err := url.Parse(uri); err != nil {
		return nil, fmt.Errorf("http connector: invalid uri: %w", err)
	}
	return &HTTPConnector{BaseURL: strings.TrimRight(uri, "/"), Client: http.DefaultClient}, nil
}

// NewHTTPConnector constructs an HTTPConnector bound to baseURL using client,
// or http.DefaultClient when client is nil. Exported for direct use by the
// engine without going through FromURI.
func NewHTTPConnector(baseURL string, client *http.Client) *HTTPConnector {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPConnector{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (c *HTTPConnector) Scheme() string { return "http" }
func (c *HTTPConnector) URI() string    { return c.BaseURL }

func (c *HTTPConnector) Connect(ctx context.Context) error { return nil }
func (c *HTTPConnector) Close() error                       { return nil }

func (c *HTTPConnector) resolve(remotePath string) string {
	if strings.HasPrefix(remotePath, "http://") || strings.HasPrefix(remotePath, "https://") {
		return remotePath
	}
	return c.BaseURL + "/" + strings.TrimLeft(remotePath, "/")
}

func (c *HTTPConnector) get(ctx context.Context, remotePath string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(remotePath), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(httpConnectTimeoutHeader, "mcbootstrap-go")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http connector: request %s: %w", remotePath, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("http connector: %s returned status %d", remotePath, resp.StatusCode)
	}
	return resp, nil
}

// DownloadTo streams remotePath into a temp file beside localTarget and
// renames it into place on success, so a failed download never leaves a
// partial file at the target path.
func (c *HTTPConnector) DownloadTo(ctx context.Context, remotePath, localTarget string) error {
	resp, err := c.get(ctx, remotePath)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localTarget), 0o755); err != nil {
		return fmt.Errorf("http connector: mkdir for %s: %w", localTarget, err)
	}

	tmp := localTarget + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("http connector: open tmp %s: %w", tmp, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("http connector: write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("http connector: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, localTarget); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("http connector: rename %s: %w", tmp, err)
	}
	return nil
}

func (c *HTTPConnector) ReadFileBytes(ctx context.Context, remotePath string) ([]byte, error) {
	resp, err := c.get(ctx, remotePath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// SendFile and SendFileFromBytes are not supported by a plain HTTP source
// and always return an error.
func (c *HTTPConnector) SendFile(ctx context.Context, remotePath, localPath string) error {
	return fmt.Errorf("http connector: uploads are not supported")
}

func (c *HTTPConnector) SendFileFromBytes(ctx context.Context, remotePath string, data []byte) error {
	return fmt.Errorf("http connector: uploads are not supported")
}

func (c *HTTPConnector) HasFile(ctx context.Context, remotePath string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.resolve(remotePath), nil)
	if err != nil {
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *HTTPConnector) HasFileWithChecksum(ctx context.Context, remotePath string, kind ChecksumType, want string) bool {
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
