// SPDX-License-Identifier: MIT

package selfupdate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeBinary creates a fake binary file with the given content and mode.
func writeBinary(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// swapRename replaces the rename seam and restores it on cleanup. Tests
// using it must not run in parallel.
func swapRename(t *testing.T, fn func(old, new string) error) {
	t.Helper()
	orig := renameFile
	renameFile = fn
	t.Cleanup(func() { renameFile = orig })
}

func TestInstall_DirectRename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	staged := filepath.Join(dir, "tool.staged")
	writeBinary(t, target, "old binary", 0o755)
	writeBinary(t, staged, "new binary", 0o600)

	if err := NewInstaller(target).Install(staged); err != nil {
		t.Fatalf("Install: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if string(got) != "new binary" {
		t.Errorf("target content = %q, want new binary", got)
	}

	// Permissions are inherited from the replaced binary, not the staged file.
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("target mode = %v, want 0755", info.Mode().Perm())
	}

	// The staged file was consumed by the rename.
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Errorf("staged file still present after install")
	}

	// No backup lingers after a successful direct rename.
	if _, err := os.Stat(target + ".bak"); !os.IsNotExist(err) {
		t.Errorf(".bak file present after successful install")
	}
}

func TestInstall_FreshInstallDefaultsExecutable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	staged := filepath.Join(dir, "tool.staged")
	writeBinary(t, staged, "new binary", 0o600)

	if err := NewInstaller(target).Install(staged); err != nil {
		t.Fatalf("Install: %v", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("fresh install mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestInstall_ReplaceFailureRollsBack(t *testing.T) {
	// Scenario: the direct rename and the staged->target rename both fail,
	// but the backup restore succeeds. The original binary must be back in
	// place and the .bak gone (consumed by the restore).
	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	staged := filepath.Join(dir, "tool.staged")
	writeBinary(t, target, "old binary", 0o755)
	writeBinary(t, staged, "new binary", 0o755)

	backup := target + ".bak"
	swapRename(t, func(oldPath, newPath string) error {
		// Fail every rename that would place a file at the target path,
		// except the restore from backup.
		if newPath == target && oldPath != backup {
			return fmt.Errorf("rename %s: %w", newPath, os.ErrPermission)
		}
		return os.Rename(oldPath, newPath)
	})

	err := NewInstaller(target).Install(staged)
	if err == nil {
		t.Fatal("expected install error, got nil")
	}
	if errors.Is(err, ErrCorruptInstall) {
		t.Fatalf("rollback succeeded but error escalated to CorruptInstall: %v", err)
	}

	got, readErr := os.ReadFile(target)
	if readErr != nil {
		t.Fatalf("original binary missing after rollback: %v", readErr)
	}
	if string(got) != "old binary" {
		t.Errorf("target content = %q, want the original binary restored", got)
	}

	if _, statErr := os.Stat(backup); !os.IsNotExist(statErr) {
		t.Errorf(".bak still present after successful restore")
	}
}

func TestInstall_RestoreFailureIsCorruptInstall(t *testing.T) {
	// Scenario: replacement fails AND the restore from backup fails. The
	// error must escalate to CorruptInstall and name the surviving backup.
	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	staged := filepath.Join(dir, "tool.staged")
	writeBinary(t, target, "old binary", 0o755)
	writeBinary(t, staged, "new binary", 0o755)

	swapRename(t, func(oldPath, newPath string) error {
		// Only the move-aside succeeds; everything placing a file at the
		// target fails, including the restore.
		if newPath == target {
			return fmt.Errorf("rename %s: %w", newPath, os.ErrPermission)
		}
		return os.Rename(oldPath, newPath)
	})

	err := NewInstaller(target).Install(staged)
	if !errors.Is(err, ErrCorruptInstall) {
		t.Fatalf("error = %v, want ErrCorruptInstall", err)
	}

	var ciErr *CorruptInstallError
	if !errors.As(err, &ciErr) {
		t.Fatalf("error is not *CorruptInstallError: %v", err)
	}
	if ciErr.BackupPath != target+".bak" {
		t.Errorf("BackupPath = %q, want %q", ciErr.BackupPath, target+".bak")
	}

	// The backup must actually survive at the reported path.
	got, readErr := os.ReadFile(ciErr.BackupPath)
	if readErr != nil {
		t.Fatalf("backup missing at reported path: %v", readErr)
	}
	if string(got) != "old binary" {
		t.Errorf("backup content = %q, want the original binary", got)
	}
}

func TestInstall_RerunAfterRollback(t *testing.T) {
	// After a rolled-back failure, a second attempt with no fault injection
	// starts cleanly from the original binary and succeeds.
	dir := t.TempDir()
	target := filepath.Join(dir, "tool")
	staged := filepath.Join(dir, "tool.staged")
	writeBinary(t, target, "old binary", 0o755)
	writeBinary(t, staged, "new binary", 0o755)

	backup := target + ".bak"
	fail := true
	swapRename(t, func(oldPath, newPath string) error {
		if fail && newPath == target && oldPath != backup {
			return fmt.Errorf("rename %s: %w", newPath, os.ErrPermission)
		}
		return os.Rename(oldPath, newPath)
	})

	installer := NewInstaller(target)
	if err := installer.Install(staged); err == nil {
		t.Fatal("expected first install to fail")
	}

	// Second run: no fault. Stage a fresh artifact, as Apply would.
	fail = false
	writeBinary(t, staged, "new binary", 0o755)
	if err := installer.Install(staged); err != nil {
		t.Fatalf("second install: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if string(got) != "new binary" {
		t.Errorf("target content = %q, want new binary", got)
	}
}

func TestInstaller_BackupPath(t *testing.T) {
	t.Parallel()

	if got := NewInstaller("/usr/local/bin/tool").BackupPath(); got != "/usr/local/bin/tool.bak" {
		t.Errorf("BackupPath() = %q", got)
	}
}
