// Package util holds helpers for job sources that are not local files.
package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alanbriolat/swarmkeeper/generic"
)

var (
	ErrNotRemote  = errors.New("not a remote job source")
	ErrNoFilename = errors.New("cannot extract valid filename")
)

// RemoteSchemes are the URL schemes Fetch will download from.
var RemoteSchemes = generic.NewSet("http", "https")

// IsRemote reports whether s looks like a URL Fetch can handle.
func IsRemote(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	return ok && RemoteSchemes.Contains(strings.ToLower(scheme))
}

// ParseRemote checks the scheme and extracts the filename the job file will be saved under.
func ParseRemote(s string) (*url.URL, string, error) {
	parsedURL, err := url.Parse(s)
	if err != nil {
		return nil, "", err
	}
	if !RemoteSchemes.Contains(parsedURL.Scheme) {
		return nil, "", fmt.Errorf("%w: unknown URL scheme %q", ErrNotRemote, parsedURL.Scheme)
	}
	filename, err := jobFilename(parsedURL)
	if err != nil {
		return nil, "", err
	}
	return parsedURL, filename, nil
}

// jobFilename takes the last element of the URL's path. Hidden names are rejected, because the job directory scan
// ignores them.
func jobFilename(u *url.URL) (string, error) {
	path := strings.Trim(u.Path, "/")
	filename := path[strings.LastIndex(path, "/")+1:]
	if filename == "" || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("%w: %q", ErrNoFilename, u.String())
	}
	return filename, nil
}

// Fetch downloads a job file into dir and returns its path. The body goes to a temporary file first, so a partial
// download never appears under its final name. Bodies larger than limit are rejected.
func Fetch(ctx context.Context, client *http.Client, s string, dir string, limit int64) (string, error) {
	parsedURL, filename, err := ParseRemote(s)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch failed: %s", resp.Status)
	}
	if resp.ContentLength > limit {
		return "", fmt.Errorf("fetch failed: %d bytes exceeds limit of %d", resp.ContentLength, limit)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if f != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	n, err := io.Copy(f, io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	if n > limit {
		return "", fmt.Errorf("fetch failed: body exceeds limit of %d", limit)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	target := filepath.Join(dir, filename)
	if err := os.Rename(f.Name(), target); err != nil {
		return "", err
	}
	f = nil
	return target, nil
}
