// SPDX-License-Identifier: MIT

package selfupdate

import (
	"os"
	"runtime"
)

// Test seams for filesystem operations, replaced in tests to inject rename
// failures at specific points of the swap.
var (
	renameFile = os.Rename
	chmodFile  = os.Chmod
)

// Installer atomically swaps a verified artifact into place as the target
// binary. It performs no network or checksum work; by the time Install runs,
// the artifact has already been verified.
//
// The swap has two strategies, selected at runtime: a direct rename on
// POSIX-like systems, and a rename-aside on systems that lock the running
// executable (Windows), where the current binary is first moved to
// "<path>.bak" and the backup is removed only after the replacement rename
// succeeds. If the replacement fails, the original is restored from the
// backup; a restore failure escalates to CorruptInstallError, which reports
// the surviving backup path for manual recovery.
type Installer struct {
	targetPath string
	backupPath string
}

// NewInstaller creates an Installer that replaces the binary at targetPath.
func NewInstaller(targetPath string) *Installer {
	return &Installer{
		targetPath: targetPath,
		backupPath: targetPath + ".bak",
	}
}

// BackupPath returns the path used for the rename-aside backup.
func (i *Installer) BackupPath() string {
	return i.backupPath
}

// Install stages the file at stagedPath (sets its permission bits to match
// the target binary's) and renames it over the target. Re-running after a
// rolled-back failure starts cleanly from the original binary. On any error
// the staged file is left for the caller to clean up.
func (i *Installer) Install(stagedPath string) error {
	// Stage: copy the target binary's permission bits onto the artifact so
	// the executable bit survives the swap. A fresh install (no existing
	// target) defaults to 0755.
	mode := os.FileMode(0o755)
	if info, err := os.Stat(i.targetPath); err == nil {
		mode = info.Mode()
	} else if !os.IsNotExist(err) {
		return &FilesystemError{Op: "reading permissions of", Path: i.targetPath, Err: err}
	}

	if err := chmodFile(stagedPath, mode); err != nil {
		return &FilesystemError{Op: "setting permissions on", Path: stagedPath, Err: err}
	}

	if i.needsRenameAside() {
		return i.renameAside(stagedPath)
	}

	if err := renameFile(stagedPath, i.targetPath); err != nil {
		// Some filesystems refuse to replace a running executable even on
		// POSIX (ETXTBSY on certain network mounts); fall back to the
		// rename-aside strategy before giving up.
		return i.renameAside(stagedPath)
	}

	return nil
}

// needsRenameAside reports whether the platform locks running executables,
// requiring the current binary to be moved aside before replacement.
func (i *Installer) needsRenameAside() bool {
	return runtime.GOOS == "windows"
}

// renameAside moves the current binary to the backup path, renames the
// staged file into place, and removes the backup only after success. On
// failure the original is restored from the backup; if that restore also
// fails the install is corrupt and the backup path is reported.
func (i *Installer) renameAside(stagedPath string) error {
	if err := renameFile(i.targetPath, i.backupPath); err != nil {
		return &FilesystemError{Op: "moving aside", Path: i.targetPath, Err: err}
	}

	if err := renameFile(stagedPath, i.targetPath); err != nil {
		// Roll back: restore the original from the backup.
		if restoreErr := renameFile(i.backupPath, i.targetPath); restoreErr != nil {
			return &CorruptInstallError{BackupPath: i.backupPath, Err: err}
		}
		return &FilesystemError{Op: "replacing", Path: i.targetPath, Err: err}
	}

	// Backup removal is best-effort; a surviving .bak is harmless.
	_ = os.Remove(i.backupPath)

	return nil
}
