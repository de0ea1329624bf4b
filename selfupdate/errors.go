// SPDX-License-Identifier: MIT

package selfupdate

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates the repository or the requested release tag does
	// not exist.
	ErrNotFound = errors.New("release not found")

	// ErrUnsupportedPlatform indicates no release asset matches the running
	// platform. This is terminal: retrying cannot succeed.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrAmbiguousAsset indicates several assets match the platform token
	// equally well and none could be preferred by binary name.
	ErrAmbiguousAsset = errors.New("ambiguous release asset")

	// ErrChecksumMismatch indicates the downloaded bytes do not hash to the
	// manifest-declared checksum. Never retried automatically.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrCorruptInstall indicates the installed binary could not be restored
	// after a failed replacement. Manual intervention is required.
	ErrCorruptInstall = errors.New("corrupt install")

	// ErrTimeout indicates a network or filesystem operation exceeded the
	// caller-supplied deadline.
	ErrTimeout = errors.New("operation timed out")
)

type (
	// NetworkError wraps a transport-level failure with the operation that
	// was in flight.
	NetworkError struct {
		Op  string
		Err error
	}

	// MalformedResponseError indicates the hosting API payload could not be
	// parsed into a release manifest.
	MalformedResponseError struct {
		Op  string
		Err error
	}

	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}

	// UnsupportedPlatformError reports that no asset matched the platform
	// token. It wraps ErrUnsupportedPlatform.
	UnsupportedPlatformError struct {
		Token  string
		Assets []string
	}

	// ChecksumError provides details about a checksum verification failure.
	// It wraps ErrChecksumMismatch so callers can use errors.Is for
	// classification.
	ChecksumError struct {
		Asset    string
		Expected string
		Got      string
	}

	// CorruptInstallError reports that the binary replacement failed and the
	// original could not be restored. BackupPath, when non-empty, names the
	// surviving copy of the original binary so the user can recover manually.
	CorruptInstallError struct {
		BackupPath string
		Err        error
	}

	// FilesystemError wraps a local filesystem failure with the path involved.
	FilesystemError struct {
		Op   string
		Path string
		Err  error
	}
)

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("no release asset matches platform %s (assets: %v)", e.Token, e.Assets)
}

func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// Error shows both expected and actual hash values for debugging.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s",
		e.Asset, e.Expected, e.Got)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

func (e *CorruptInstallError) Error() string {
	if e.BackupPath != "" {
		return fmt.Sprintf("binary replacement failed and the original could not be restored: %v (backup survives at %s)",
			e.Err, e.BackupPath)
	}
	return fmt.Sprintf("binary replacement failed and the original could not be restored: %v", e.Err)
}

func (e *CorruptInstallError) Unwrap() error { return ErrCorruptInstall }

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
