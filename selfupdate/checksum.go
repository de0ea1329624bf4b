// SPDX-License-Identifier: MIT

package selfupdate

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxChecksumBytes caps checksum file downloads (1 MB). Checksum files are a
// few lines; anything larger is malformed or hostile.
const maxChecksumBytes = 1 << 20

// checksumsAggregateName is the conventional aggregate checksum file name.
const checksumsAggregateName = "checksums.txt"

// errNoValidEntries indicates a checksum file contained no parseable entries.
var errNoValidEntries = errors.New("no valid checksum entries found")

// ChecksumEntry is one SHA256 checksum declared for a release asset.
type ChecksumEntry struct {
	Hash     string // Hex-encoded SHA256 hash (64 characters, lowercase)
	Filename string // Asset filename this hash applies to
}

// ParseChecksums parses an aggregate checksum file in the standard sha256sum
// output format: "{sha256_hex}  {filename}" per line, two spaces between hash
// and filename. Empty lines and lines that don't match the format are
// skipped. Returns an error if no valid entries are found.
func ParseChecksums(r io.Reader) ([]ChecksumEntry, error) {
	var entries []ChecksumEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "  ", 2)
		if len(parts) != 2 {
			continue
		}

		hash := parts[0]
		// sha256sum marks binary mode with a leading "*" on the filename.
		filename := strings.TrimPrefix(strings.TrimSpace(parts[1]), "*")

		if filename == "" || !isValidHexHash(hash) {
			continue
		}

		entries = append(entries, ChecksumEntry{
			Hash:     strings.ToLower(hash),
			Filename: filename,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading checksums: %w", err)
	}

	if len(entries) == 0 {
		return nil, errNoValidEntries
	}

	return entries, nil
}

// ParseDigest parses a single-asset ".sha256" sidecar body. Accepted forms
// are a bare hex digest or sha256sum output ("{hex}  {filename}"); only the
// first line is considered.
func ParseDigest(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(io.LimitReader(r, maxChecksumBytes))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || !isValidHexHash(fields[0]) {
			return "", fmt.Errorf("%w: %q", errNoValidEntries, line)
		}
		return strings.ToLower(fields[0]), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading digest: %w", err)
	}
	return "", errNoValidEntries
}

// FindChecksum searches entries for the given filename and returns its hash,
// or "" when no entry matches.
func FindChecksum(entries []ChecksumEntry, filename string) string {
	for _, e := range entries {
		if e.Filename == filename {
			return e.Hash
		}
	}
	return ""
}

// ResolveChecksum determines the declared checksum for asset, consulting the
// release's checksum sources in order of authority:
//
//  1. a "{asset}.sha256" sidecar asset (freshest, authoritative when present)
//  2. an aggregate "checksums.txt" asset
//  3. a per-asset digest in the release manifest itself
//
// An empty result with a nil error means the release declares no checksum
// for this asset; verification is then skipped and surfaced as a warning,
// not an error, since some releases predate checksum publishing.
func ResolveChecksum(ctx context.Context, client *Client, release *Release, asset *Asset) (string, error) {
	// 1. Per-asset sidecar file.
	for i := range release.Assets {
		if release.Assets[i].Name != asset.Name+".sha256" {
			continue
		}
		body, err := client.DownloadAsset(ctx, release.Assets[i].DownloadURL)
		if err != nil {
			return "", fmt.Errorf("fetching checksum sidecar: %w", err)
		}
		digest, parseErr := ParseDigest(body)
		body.Close()
		if parseErr != nil {
			return "", fmt.Errorf("parsing %s: %w", release.Assets[i].Name, parseErr)
		}
		return digest, nil
	}

	// 2. Aggregate checksums file.
	for i := range release.Assets {
		if !strings.EqualFold(release.Assets[i].Name, checksumsAggregateName) {
			continue
		}
		body, err := client.DownloadAsset(ctx, release.Assets[i].DownloadURL)
		if err != nil {
			return "", fmt.Errorf("fetching %s: %w", checksumsAggregateName, err)
		}
		entries, parseErr := ParseChecksums(io.LimitReader(body, maxChecksumBytes))
		body.Close()
		if parseErr != nil {
			return "", fmt.Errorf("parsing %s: %w", checksumsAggregateName, parseErr)
		}
		if hash := FindChecksum(entries, asset.Name); hash != "" {
			return hash, nil
		}
		break
	}

	// 3. Inline manifest digest.
	return asset.Checksum, nil
}

// ComputeFileHash computes and returns the lowercase hex-encoded SHA256
// digest of the file at path, streaming to avoid loading the file into
// memory.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // read-only file handle

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// isValidHexHash checks if s is a valid 64-character hex-encoded SHA256 hash.
func isValidHexHash(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
