// SPDX-License-Identifier: MIT

package selfupdate

import (
	"fmt"
	"strings"
)

// sidecarSuffixes are asset name endings that mark checksum, signature, and
// metadata companions rather than installable binaries.
var sidecarSuffixes = []string{
	".sha256", ".sha256sum", ".sig", ".asc", ".pem", ".txt", ".json", ".sbom", ".yml", ".yaml",
}

// archiveSuffixes are recognized archive/extension endings, stripped before
// comparing an asset name against the binary name.
var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.xz", ".zip", ".gz", ".exe"}

// conflictingArchTokens lists 64-bit spellings that embed a 32-bit alias as
// a substring: "arm" occurs inside "arm64", "x86" inside "x86_64". A
// filename carrying one of these names a different architecture, so it must
// never match the 32-bit platform whatever else it contains.
var conflictingArchTokens = map[string][]string{
	"386": {"x86_64", "x86-64", "amd64"},
	"arm": {"arm64", "aarch64"},
}

// Plan is a validated decision to install one asset over the binary at
// TargetPath. Construction fails unless the asset matches the platform.
type Plan struct {
	Asset       Asset
	Platform    Platform
	CurrentPath string // Path of the currently running binary
	TargetPath  string // Path the verified artifact will be installed to
}

// NewPlan validates that asset is installable on platform and pairs it with
// the current binary's path and its replacement target.
func NewPlan(asset Asset, platform Platform, currentPath, targetPath string) (*Plan, error) {
	if !matchesPlatform(asset.Name, platform) {
		return nil, &UnsupportedPlatformError{Token: platform.Token(), Assets: []string{asset.Name}}
	}
	return &Plan{
		Asset:       asset,
		Platform:    platform,
		CurrentPath: currentPath,
		TargetPath:  targetPath,
	}, nil
}

// SelectAsset picks the release asset to install on the given platform.
// Checksum and signature sidecars are never candidates. When several assets
// match the platform token, the one whose filename most closely matches
// binaryName wins (exact basename beats prefix beats substring); a tie at
// the top score fails with ErrAmbiguousAsset. Zero matches fail with
// ErrUnsupportedPlatform, which is terminal.
func SelectAsset(release *Release, platform Platform, binaryName string) (*Asset, error) {
	var candidates []*Asset
	var names []string

	for i := range release.Assets {
		name := release.Assets[i].Name
		names = append(names, name)
		if isSidecar(name) {
			continue
		}
		if matchesPlatform(name, platform) {
			candidates = append(candidates, &release.Assets[i])
		}
	}

	switch len(candidates) {
	case 0:
		return nil, &UnsupportedPlatformError{Token: platform.Token(), Assets: names}
	case 1:
		return candidates[0], nil
	}

	// Tie-break by closeness to the binary name.
	best, bestScore, tied := candidates[0], -1, false
	for _, c := range candidates {
		score := nameScore(c.Name, binaryName)
		switch {
		case score > bestScore:
			best, bestScore, tied = c, score, false
		case score == bestScore:
			tied = true
		}
	}

	if tied || bestScore == 0 {
		var matched []string
		for _, c := range candidates {
			matched = append(matched, c.Name)
		}
		return nil, fmt.Errorf("assets %v equally match platform %s: %w",
			matched, platform.Token(), ErrAmbiguousAsset)
	}

	return best, nil
}

// matchesPlatform reports whether the asset filename names both the OS and
// the architecture of platform, in any recognized spelling.
func matchesPlatform(name string, platform Platform) bool {
	lower := strings.ToLower(name)

	osMatch := false
	for _, token := range platform.osAliases() {
		if strings.Contains(lower, token) {
			osMatch = true
			break
		}
	}
	if !osMatch {
		return false
	}

	for _, token := range conflictingArchTokens[platform.Arch] {
		if strings.Contains(lower, token) {
			return false
		}
	}

	for _, token := range platform.archAliases() {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// nameScore ranks how closely an asset filename matches the binary name:
// 3 for an exact basename match (extensions stripped), 2 for a
// "{binary}-..." or "{binary}_..." prefix, 1 for any substring occurrence,
// 0 otherwise.
func nameScore(assetName, binaryName string) int {
	base := strings.ToLower(assetName)
	for _, suffix := range archiveSuffixes {
		base = strings.TrimSuffix(base, suffix)
	}
	bin := strings.ToLower(binaryName)

	switch {
	case base == bin:
		return 3
	case strings.HasPrefix(base, bin+"-"), strings.HasPrefix(base, bin+"_"):
		return 2
	case strings.Contains(base, bin):
		return 1
	}
	return 0
}

// isSidecar reports whether the asset is a checksum/signature/metadata
// companion file rather than an installable artifact.
func isSidecar(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range sidecarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
