// Package fetch downloads land-cover source archives over HTTP or FTP and
// unpacks them for loading into the spatial engine.
package fetch

import (
	"archive/zip"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures archive downloads.
type Options struct {
	DestDir string
	Timeout time.Duration
}

// Archive downloads the archive at rawURL (http, https or ftp scheme) into
// DestDir and, for ZIP archives, extracts it alongside. Returns the
// directory holding the usable files. Downloads already present on disk are
// not repeated.
func Archive(ctx context.Context, rawURL string, opts Options) (string, error) {
	if opts.DestDir == "" {
		opts.DestDir = "data"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Minute
	}

	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetch: create dest dir")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", eris.Wrap(err, "fetch: parse url")
	}
	name := filepath.Base(u.Path)
	if name == "." || name == "/" {
		return "", eris.Errorf("fetch: url %s has no file name", rawURL)
	}
	archivePath := filepath.Join(opts.DestDir, name)

	log := zap.L().With(zap.String("component", "fetch"), zap.String("url", rawURL))

	if info, statErr := os.Stat(archivePath); statErr == nil && info.Size() > 0 {
		log.Debug("archive already present, skipping download", zap.String("path", archivePath))
	} else {
		log.Info("downloading archive")
		switch u.Scheme {
		case "http", "https":
			err = downloadHTTP(ctx, rawURL, archivePath, opts.Timeout)
		case "ftp":
			err = downloadFTP(ctx, u, archivePath, opts.Timeout)
		default:
			return "", eris.Errorf("fetch: unsupported scheme %q", u.Scheme)
		}
		if err != nil {
			return "", err
		}
	}

	if !strings.EqualFold(filepath.Ext(name), ".zip") {
		return opts.DestDir, nil
	}

	extractDir := filepath.Join(opts.DestDir, strings.TrimSuffix(name, filepath.Ext(name)))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetch: create extract dir")
	}
	if err := extractZIP(archivePath, extractDir); err != nil {
		return "", err
	}
	return extractDir, nil
}

// downloadHTTP downloads a URL to a local file.
func downloadHTTP(ctx context.Context, rawURL, dest string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "fetch: build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "fetch: download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("fetch: download returned status %d", resp.StatusCode)
	}

	return writeFile(dest, resp.Body)
}

// downloadFTP retrieves a file from an anonymous FTP server.
func downloadFTP(ctx context.Context, u *url.URL, dest string, timeout time.Duration) error {
	host := u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "fetch: ftp dial")
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return eris.Wrap(err, "fetch: ftp login")
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return eris.Wrap(err, "fetch: ftp retrieve")
	}
	defer resp.Close() //nolint:errcheck

	return writeFile(dest, resp)
}

func writeFile(dest string, r io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "fetch: create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, r); err != nil {
		return eris.Wrap(err, "fetch: write file")
	}
	return nil
}

// extractZIP extracts a ZIP archive to the destination directory, flattening
// entry paths.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "fetch: open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(f.Name)
		destPath := filepath.Join(destDir, name)

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "fetch: open zip entry %s", f.Name)
		}
		if err := writeFile(destPath, rc); err != nil {
			_ = rc.Close()
			return err
		}
		_ = rc.Close()
	}
	return nil
}
