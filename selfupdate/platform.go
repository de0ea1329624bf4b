// SPDX-License-Identifier: MIT

package selfupdate

import "runtime"

// Platform identifies an operating system and CPU architecture pair.
type Platform struct {
	OS   string // GOOS value: "linux", "darwin", "windows"
	Arch string // GOARCH value: "amd64", "arm64", "386"
}

// archTokens maps a GOARCH value to the spellings release artifacts use for
// it. Release pipelines are split between Go naming (amd64) and uname naming
// (x86_64), so both are recognized.
var archTokens = map[string][]string{
	"amd64": {"x86_64", "amd64", "x64"},
	"arm64": {"aarch64", "arm64"},
	"386":   {"i386", "386", "x86"},
	"arm":   {"armv7", "armv6", "arm"},
}

// osTokens maps a GOOS value to the spellings release artifacts use for it.
var osTokens = map[string][]string{
	"linux":   {"linux"},
	"darwin":  {"darwin", "macos", "osx"},
	"windows": {"windows", "win64", "win32"},
	"freebsd": {"freebsd"},
}

// DetectPlatform returns the platform of the running process.
func DetectPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Token returns the canonical platform identifier used in asset filenames,
// e.g. "linux-x86_64", "darwin-aarch64", "windows-x86_64". The OS keeps its
// GOOS spelling; the architecture uses the uname spelling when one exists.
func (p Platform) Token() string {
	arch := p.Arch
	if tokens, ok := archTokens[p.Arch]; ok {
		arch = tokens[0]
	}
	return p.OS + "-" + arch
}

// osAliases returns the recognized OS spellings for this platform.
func (p Platform) osAliases() []string {
	if tokens, ok := osTokens[p.OS]; ok {
		return tokens
	}
	return []string{p.OS}
}

// archAliases returns the recognized architecture spellings for this platform.
func (p Platform) archAliases() []string {
	if tokens, ok := archTokens[p.Arch]; ok {
		return tokens
	}
	return []string{p.Arch}
}
