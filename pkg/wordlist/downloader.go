package wordlist

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSource is returned when a resource is missing and no URL is known.
var ErrNoSource = errors.New("resource missing and no download url configured")

var downloadClient = &http.Client{Timeout: 60 * time.Second}

// EnsureResource checks that path exists. If not, it downloads url into
// path. Archives ending in .tgz or .tar.gz contribute their first regular
// file; .gz files are decompressed; anything else is copied as is.
func EnsureResource(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		return fmt.Errorf("%s: %w", path, ErrNoSource)
	}

	log.Printf("Resource not found at %s. Downloading from %s...", path, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "listenability-cli")
	resp, err := downloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := extract(resp.Body, url, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func extract(body io.Reader, url string, dst io.Writer) error {
	switch {
	case strings.HasSuffix(url, ".tgz") || strings.HasSuffix(url, ".tar.gz"):
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		tr := tar.NewReader(gz)
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				return fmt.Errorf("no regular file found in downloaded archive")
			}
			if err != nil {
				return fmt.Errorf("error reading tar archive: %w", err)
			}
			if hdr.Typeflag == tar.TypeReg {
				_, err := io.Copy(dst, tr)
				return err
			}
		}
	case strings.HasSuffix(url, ".gz"):
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		_, err = io.Copy(dst, gz)
		return err
	default:
		_, err := io.Copy(dst, body)
		return err
	}
}
