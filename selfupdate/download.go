// SPDX-License-Identifier: MIT

package selfupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

// Artifact is a downloaded asset persisted to a temporary file, with its
// computed SHA256. An Artifact only exists after the computed digest matched
// the declared checksum — or, when the release declared none, with
// Unverified set so callers can surface a warning.
type Artifact struct {
	Path       string // Temporary file holding the downloaded bytes
	SHA256     string // Lowercase hex digest computed while streaming
	Unverified bool   // True when the release declared no checksum
}

// Download streams the asset body into a uniquely named temporary file in
// dir, computing the SHA256 digest in the same pass. dir must be on the same
// filesystem as the install target so the later rename is atomic.
//
// expectedChecksum is the manifest-declared hash (case-insensitive hex); when
// empty, verification is skipped and the artifact is flagged Unverified. On
// checksum mismatch or any transport/filesystem error the temporary file is
// removed — no partial download ever survives an error exit.
func Download(ctx context.Context, client *Client, asset *Asset, dir, expectedChecksum string) (*Artifact, error) {
	body, err := client.DownloadAsset(ctx, asset.DownloadURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, ".update-download-*")
	if err != nil {
		return nil, &FilesystemError{Op: "creating temp file in", Path: dir, Err: err}
	}

	h := sha256.New()
	_, copyErr := io.Copy(io.MultiWriter(tmp, h), body)
	closeErr := tmp.Close()

	if copyErr != nil {
		_ = os.Remove(tmp.Name())
		return nil, classifyTransportError("downloading "+asset.Name, copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmp.Name())
		return nil, &FilesystemError{Op: "writing", Path: tmp.Name(), Err: closeErr}
	}

	got := hex.EncodeToString(h.Sum(nil))

	if expectedChecksum == "" {
		return &Artifact{Path: tmp.Name(), SHA256: got, Unverified: true}, nil
	}

	if !strings.EqualFold(got, expectedChecksum) {
		_ = os.Remove(tmp.Name())
		return nil, &ChecksumError{
			Asset:    asset.Name,
			Expected: strings.ToLower(expectedChecksum),
			Got:      got,
		}
	}

	return &Artifact{Path: tmp.Name(), SHA256: got}, nil
}
