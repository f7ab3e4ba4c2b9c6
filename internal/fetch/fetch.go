// Package fetch downloads remote artifacts (installer scripts, rule-data
// files) and writes them onto the target host.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/altekin/boxup/internal/host"
	"github.com/altekin/boxup/internal/version"
)

// The installer scripts are a few KiB and rule-data files a few MiB; cap
// responses so a misbehaving mirror cannot fill the disk.
const maxArtifactBytes = int64(256 << 20)

var ErrAllMirrorsFailed = errors.New("all mirrors failed")

type Client struct {
	http *http.Client
}

func New() *Client {
	return &Client{http: &http.Client{Timeout: 60 * time.Second}}
}

func (c *Client) Get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fmt.Sprintf("boxup/%s (%s; %s)", version.AppVersion, runtime.GOOS, runtime.GOARCH))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxArtifactBytes {
		return nil, fmt.Errorf("GET %s: response exceeds %d bytes", url, maxArtifactBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("GET %s: empty response", url)
	}
	return data, nil
}

// Download fetches url and writes it to dest on h.
func (c *Client) Download(h host.Host, url, dest string, mode os.FileMode) error {
	data, err := c.Get(url)
	if err != nil {
		return err
	}
	if err := h.WriteFile(dest, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// DownloadFirst tries each mirror in order and writes the first successful
// response to dest, returning the winning URL. When every mirror fails the
// returned error wraps ErrAllMirrorsFailed and the last cause.
func (c *Client) DownloadFirst(h host.Host, mirrors []string, dest string, mode os.FileMode) (string, error) {
	var lastErr error
	for _, url := range mirrors {
		data, err := c.Get(url)
		if err != nil {
			lastErr = err
			continue
		}
		if err := h.WriteFile(dest, data, mode); err != nil {
			return "", fmt.Errorf("write %s: %w", dest, err)
		}
		return url, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no mirrors configured")
	}
	return "", fmt.Errorf("%w: %v", ErrAllMirrorsFailed, lastErr)
}

// Duplicate copies src to dst on the same host, byte for byte.
func Duplicate(h host.Host, src, dst string, mode os.FileMode) error {
	data, err := h.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := h.WriteFile(dst, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
