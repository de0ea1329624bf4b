// SPDX-License-Identifier: MIT

package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	clicommon "github.com/workhelix/cli-common"
)

// ErrInvalidVersion indicates a version string is not valid semver.
var ErrInvalidVersion = errors.New("invalid semantic version")

// Test seams for resolving the running executable.
var (
	osExecutable = os.Executable
	evalSymlinks = filepath.EvalSymlinks
)

type (
	// CheckResult reports the outcome of a version check against the release
	// host.
	CheckResult struct {
		CurrentVersion string   // Version of the running binary
		TargetVersion  string   // Version of the resolved release (tag prefix stripped)
		UpToDate       bool     // True when the current version is at or beyond the target
		Release        *Release // Resolved release manifest
	}

	// Updater composes the release resolver, asset selector, verified
	// downloader, and installer into an end-to-end update flow for one tool.
	Updater struct {
		repo           clicommon.RepoInfo
		currentVersion string
		binaryName     string
		client         *Client
		logger         *log.Logger
	}

	// UpdaterOption configures an Updater during construction.
	UpdaterOption func(*Updater)

	// Options parameterizes a single Run invocation.
	Options struct {
		// Version pins a specific version to install; empty means latest.
		Version string
		// Force reinstalls even when already at the target version.
		Force bool
		// InstallDir overrides the install location; empty means in place of
		// the running executable.
		InstallDir string
		// Stdout and Stderr receive user-facing progress and error output.
		// They default to os.Stdout and os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// WithClient overrides the default GitHub client used by the Updater.
func WithClient(c *Client) UpdaterOption {
	return func(u *Updater) {
		u.client = c
	}
}

// WithLogger overrides the default logger. The default logs warnings and
// errors to stderr; pass a debug-level logger to trace the update protocol.
func WithLogger(l *log.Logger) UpdaterOption {
	return func(u *Updater) {
		u.logger = l
	}
}

// WithBinaryName overrides the binary name used for asset matching and
// archive extraction, which defaults to the repository name.
func WithBinaryName(name string) UpdaterOption {
	return func(u *Updater) {
		u.binaryName = name
	}
}

// New creates an Updater for the tool released from repo, currently running
// currentVersion.
func New(repo clicommon.RepoInfo, currentVersion string, opts ...UpdaterOption) *Updater {
	u := &Updater{
		repo:           repo,
		currentVersion: currentVersion,
		binaryName:     repo.Name,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = NewClient()
	}
	if u.logger == nil {
		u.logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	return u
}

// Check resolves the target release (the latest one, or the release tagged
// with requestedVersion) and compares it against the current version.
// It performs exactly one read-only API request.
func (u *Updater) Check(ctx context.Context, requestedVersion string) (*CheckResult, error) {
	var release *Release
	var err error

	if requestedVersion != "" {
		tag := u.repo.ReleaseTag(strings.TrimPrefix(requestedVersion, u.repo.TagPrefix))
		u.logger.Debug("resolving release", "repo", u.repo, "tag", tag)
		release, err = u.client.ReleaseByTag(ctx, u.repo, tag)
	} else {
		u.logger.Debug("resolving latest release", "repo", u.repo)
		release, err = u.client.LatestRelease(ctx, u.repo)
	}
	if err != nil {
		return nil, err
	}

	targetVersion := strings.TrimPrefix(release.TagName, u.repo.TagPrefix)

	cmp, err := compareVersions(u.currentVersion, targetVersion)
	if err != nil {
		return nil, err
	}

	return &CheckResult{
		CurrentVersion: u.currentVersion,
		TargetVersion:  targetVersion,
		UpToDate:       cmp >= 0,
		Release:        release,
	}, nil
}

// Apply selects, downloads, verifies, and installs the release's asset for
// the running platform. installDir, when non-empty, overrides the install
// location; otherwise the running executable is replaced in place.
func (u *Updater) Apply(ctx context.Context, release *Release, installDir string) error {
	if release == nil {
		return errors.New("release must not be nil")
	}

	execPath, err := resolveExecPath()
	if err != nil {
		return err
	}

	targetPath := execPath
	if installDir != "" {
		targetPath = filepath.Join(installDir, filepath.Base(execPath))
	}

	platform := DetectPlatform()

	asset, err := SelectAsset(release, platform, u.binaryName)
	if err != nil {
		return err
	}
	u.logger.Debug("selected asset", "name", asset.Name, "platform", platform.Token())

	plan, err := NewPlan(*asset, platform, execPath, targetPath)
	if err != nil {
		return err
	}

	expected, err := ResolveChecksum(ctx, u.client, release, asset)
	if err != nil {
		return err
	}
	if expected == "" {
		u.logger.Warn("release declares no checksum for asset; skipping verification", "asset", asset.Name)
	}

	// Download into the target's directory so the final rename never
	// crosses a filesystem boundary.
	targetDir := filepath.Dir(plan.TargetPath)

	artifact, err := Download(ctx, u.client, asset, targetDir, expected)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(artifact.Path) }()
	u.logger.Debug("downloaded and verified", "sha256", artifact.SHA256, "unverified", artifact.Unverified)

	stagedPath := artifact.Path
	if isTarGz(asset.Name) || isZip(asset.Name) {
		binaryName := u.binaryName
		if platform.OS == "windows" {
			binaryName += ".exe"
		}
		if isZip(asset.Name) {
			stagedPath, err = extractZipBinary(artifact.Path, targetDir, binaryName)
		} else {
			stagedPath, err = extractBinary(artifact.Path, targetDir, binaryName)
		}
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(stagedPath) }()
	}

	installer := NewInstaller(plan.TargetPath)
	if err := installer.Install(stagedPath); err != nil {
		return err
	}
	u.logger.Debug("installed", "path", plan.TargetPath)

	return nil
}

// Run is the single update operation exposed to host tools. It checks for
// the target version, applies the update unless already current, prints
// progress and remediation hints, and returns a process exit code: 0 on
// success (including "already up to date"), nonzero on any failure.
func (u *Updater) Run(ctx context.Context, opts Options) int {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// A binary owned by a package manager is upgraded through that manager,
	// not replaced underneath it. Force overrides the guard.
	if !opts.Force {
		if execPath, err := resolveExecPath(); err == nil {
			if method := DetectInstallMethod(execPath, u.repo); method.Managed() {
				fmt.Fprintln(stdout, method.Guidance(u.repo))
				return 0
			}
		}
	}

	check, err := u.Check(ctx, opts.Version)
	if err != nil {
		fmt.Fprintln(stderr, formatError(err))
		return exitCode(err)
	}

	fmt.Fprintf(stdout, "Current version: %s\n", check.CurrentVersion)
	fmt.Fprintf(stdout, "Target version:  %s\n", check.TargetVersion)

	if check.UpToDate && !opts.Force {
		fmt.Fprintln(stdout, "Already up to date.")
		return 0
	}

	fmt.Fprintf(stdout, "\nDownloading %s %s...\n", u.binaryName, check.TargetVersion)

	if err := u.Apply(ctx, check.Release, opts.InstallDir); err != nil {
		fmt.Fprintln(stderr, formatError(err))
		return exitCode(err)
	}

	fmt.Fprintf(stdout, "Successfully updated to %s\n", check.TargetVersion)
	return 0
}

// resolveExecPath returns the absolute, symlink-resolved path of the
// currently running binary.
func resolveExecPath() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}

	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}

	return resolved, nil
}

// compareVersions compares two version strings as semver, tolerating a
// missing "v" prefix. Returns <0 when current is older than target.
func compareVersions(current, target string) (int, error) {
	cur, err := normalizeVersion(current)
	if err != nil {
		return 0, fmt.Errorf("current version: %w", err)
	}
	tgt, err := normalizeVersion(target)
	if err != nil {
		return 0, fmt.Errorf("target version: %w", err)
	}
	return semver.Compare(cur, tgt), nil
}

// normalizeVersion ensures the version has the "v" prefix the semver package
// requires and validates the result.
func normalizeVersion(v string) (string, error) {
	norm := v
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	if !semver.IsValid(norm) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return norm, nil
}

// exitCode maps an update error to a process exit code: 1 for conditions the
// user can correct (wrong version, unsupported platform, permissions), 2 for
// transport and integrity failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnsupportedPlatform),
		errors.Is(err, ErrAmbiguousAsset),
		errors.Is(err, ErrInvalidVersion),
		errors.Is(err, os.ErrPermission):
		return 1
	default:
		return 2
	}
}

// formatError produces a user-facing message with remediation guidance
// tailored to the failure kind.
func formatError(err error) string {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Sprintf("%s\n\nTo increase your rate limit, set a GitHub token:\n  export GITHUB_TOKEN=ghp_...\nThen retry the update.", rateLimitErr.Error())
	}

	var checksumErr *ChecksumError
	if errors.As(err, &checksumErr) {
		return fmt.Sprintf("%s\n\nThe download may be corrupted or tampered with. The update was NOT installed.\nPlease try again later; if this persists, report it to the tool maintainers.", checksumErr.Error())
	}

	var corruptErr *CorruptInstallError
	if errors.As(err, &corruptErr) {
		msg := fmt.Sprintf("FATAL: %s\n\nThe installed binary may be missing or broken.", corruptErr.Error())
		if corruptErr.BackupPath != "" {
			msg += fmt.Sprintf("\nRestore it manually from the backup:\n  mv %s <original path>", corruptErr.BackupPath)
		}
		return msg
	}

	if errors.Is(err, ErrUnsupportedPlatform) {
		return fmt.Sprintf("%s\n\nNo prebuilt binary exists for this platform. Build from source instead.", err.Error())
	}

	if errors.Is(err, os.ErrPermission) {
		return fmt.Sprintf("%s\n\nInsufficient permissions to replace the binary. Retry with elevated privileges.", err.Error())
	}

	if errors.Is(err, ErrTimeout) {
		return fmt.Sprintf("%s\n\nThe operation timed out. Check your network connection and try again.", err.Error())
	}

	return err.Error()
}
