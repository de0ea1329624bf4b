// SPDX-License-Identifier: MIT

package selfupdate

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	clicommon "github.com/workhelix/cli-common"
)

const (
	// homebrewMacARM is the Homebrew prefix on macOS ARM (Apple Silicon).
	homebrewMacARM = "/opt/homebrew/"

	// homebrewMacIntel is the Homebrew Cellar path on macOS Intel.
	homebrewMacIntel = "/usr/local/Cellar/"

	// homebrewLinux is the Linuxbrew prefix.
	homebrewLinux = "/home/linuxbrew/.linuxbrew/"
)

// readBuildInfo is a test seam for debug.ReadBuildInfo.
var readBuildInfo = debug.ReadBuildInfo

// InstallMethod identifies how the host tool's binary got onto the system.
// Binaries managed by a package manager should be upgraded through that
// manager, not replaced underneath it.
type InstallMethod int

const (
	// InstallMethodUnknown means the binary was placed manually (direct
	// download, release asset, custom install). Self-update owns it.
	InstallMethodUnknown InstallMethod = iota

	// InstallMethodHomebrew means the binary lives under a Homebrew prefix.
	// Upgrades belong to `brew upgrade`.
	InstallMethodHomebrew

	// InstallMethodGoInstall means the binary was built by `go install`.
	// Upgrades belong to re-running `go install` with the new version.
	InstallMethodGoInstall
)

// String returns a human-readable name for the install method.
func (m InstallMethod) String() string {
	switch m {
	case InstallMethodHomebrew:
		return "homebrew"
	case InstallMethodGoInstall:
		return "go install"
	}
	return "unknown"
}

// Managed reports whether a package manager owns the binary, in which case
// self-update should step aside.
func (m InstallMethod) Managed() bool {
	return m == InstallMethodHomebrew || m == InstallMethodGoInstall
}

// Guidance returns the upgrade command the user should run instead of
// self-updating, or "" when self-update applies.
func (m InstallMethod) Guidance(repo clicommon.RepoInfo) string {
	switch m {
	case InstallMethodHomebrew:
		return "This binary is managed by Homebrew. Upgrade it with:\n  brew upgrade " + repo.Name
	case InstallMethodGoInstall:
		return "This binary was installed with go install. Upgrade it with:\n  go install github.com/" + repo.String() + "@latest"
	}
	return ""
}

// DetectInstallMethod determines how the binary at execPath was installed.
// Homebrew is recognized by its well-known prefixes; go install requires
// both a GOPATH/bin location and build info confirming the repo's module
// path, so a manually-placed binary in GOPATH/bin is not misclassified.
func DetectInstallMethod(execPath string, repo clicommon.RepoInfo) InstallMethod {
	if strings.Contains(execPath, homebrewMacARM) ||
		strings.Contains(execPath, homebrewMacIntel) ||
		strings.Contains(execPath, homebrewLinux) {
		return InstallMethodHomebrew
	}

	if isInGOPATHBin(execPath) && builtFromModule(repo) {
		return InstallMethodGoInstall
	}

	return InstallMethodUnknown
}

// isInGOPATHBin reports whether execPath is inside $GOPATH/bin, falling back
// to ~/go when GOPATH is unset, matching the Go toolchain default.
func isInGOPATHBin(execPath string) bool {
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		gopath = filepath.Join(home, "go")
	}

	gopathBin := filepath.Clean(filepath.Join(gopath, "bin"))
	cleanExec := filepath.Clean(execPath)

	// The trailing separator matches the directory boundary, so
	// /home/u/gobin does not pass as /home/u/go/bin.
	return strings.HasPrefix(cleanExec, gopathBin+string(filepath.Separator))
}

// builtFromModule reports whether the running binary's build info names the
// repository's module path.
func builtFromModule(repo clicommon.RepoInfo) bool {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return false
	}
	return strings.Contains(info.Path, repo.String())
}
