// SPDX-License-Identifier: MIT

package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxBinaryBytes is the upper bound on extracted binary size (500 MB).
// Prevents decompression bombs when extracting a binary from a release
// archive.
const maxBinaryBytes = 500 << 20

// isTarGz reports whether the asset name denotes a gzipped tarball.
func isTarGz(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz")
}

// isZip reports whether the asset name denotes a zip archive.
func isZip(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".zip")
}

// extractBinary opens the tar.gz archive at archivePath and extracts the
// entry whose base name is binaryName into a temp file in dir. Matching by
// base name handles both flat archives (binary at the root) and nested
// layouts (e.g. tool_1.0.0_linux_amd64/tool).
func extractBinary(archivePath, dir, binaryName string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", &FilesystemError{Op: "opening archive", Path: archivePath, Err: err}
	}
	defer func() { _ = f.Close() }() // read-only file handle

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("reading gzip archive %s: %w", archivePath, err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return "", fmt.Errorf("reading tar entry in %s: %w", archivePath, nextErr)
		}

		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != binaryName {
			continue
		}

		tmp, createErr := os.CreateTemp(dir, ".update-binary-*")
		if createErr != nil {
			return "", &FilesystemError{Op: "creating temp file in", Path: dir, Err: createErr}
		}

		_, copyErr := io.Copy(tmp, io.LimitReader(tr, maxBinaryBytes))
		closeErr := tmp.Close()
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(tmp.Name())
			if copyErr == nil {
				copyErr = closeErr
			}
			return "", fmt.Errorf("extracting %s from %s: %w", binaryName, archivePath, copyErr)
		}

		return tmp.Name(), nil
	}

	return "", fmt.Errorf("binary %q not found in archive %s", binaryName, archivePath)
}

// extractZipBinary extracts the entry whose base name is binaryName from the
// zip archive at archivePath into a temp file in dir. Zip is the packaging
// convention for Windows releases; the same base-name matching as
// extractBinary handles flat and nested layouts.
func extractZipBinary(archivePath, dir, binaryName string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("reading zip archive %s: %w", archivePath, err)
	}
	defer func() { _ = zr.Close() }()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || filepath.Base(entry.Name) != binaryName {
			continue
		}

		rc, openErr := entry.Open()
		if openErr != nil {
			return "", fmt.Errorf("reading %s from %s: %w", entry.Name, archivePath, openErr)
		}

		tmp, createErr := os.CreateTemp(dir, ".update-binary-*")
		if createErr != nil {
			_ = rc.Close()
			return "", &FilesystemError{Op: "creating temp file in", Path: dir, Err: createErr}
		}

		_, copyErr := io.Copy(tmp, io.LimitReader(rc, maxBinaryBytes))
		_ = rc.Close()
		closeErr := tmp.Close()
		if copyErr != nil || closeErr != nil {
			_ = os.Remove(tmp.Name())
			if copyErr == nil {
				copyErr = closeErr
			}
			return "", fmt.Errorf("extracting %s from %s: %w", binaryName, archivePath, copyErr)
		}

		return tmp.Name(), nil
	}

	return "", fmt.Errorf("binary %q not found in archive %s", binaryName, archivePath)
}
