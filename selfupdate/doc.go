// SPDX-License-Identifier: MIT

// Package selfupdate downloads, verifies, and installs GitHub release
// binaries in place of the running executable.
//
// The package is organized into five concerns:
//   - github.go: HTTP client for the GitHub Releases API (resolve, download)
//   - platform.go / asset.go: platform token computation and asset selection
//   - checksum.go: SHA256 checksum resolution, parsing, and verification
//   - download.go / archive.go: verified streaming download and extraction
//   - install.go: atomic binary replacement with backup and rollback
//
// selfupdate.go composes them into the Updater facade and the Run entry
// point used by host tools. The whole flow is sequential and single-process:
// resolve release, select asset, download and verify, install. An
// interrupted run never corrupts the installed binary; at worst it leaves
// an orphaned temporary file next to it.
package selfupdate
