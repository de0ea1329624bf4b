// SPDX-License-Identifier: MIT

package doctor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(file, []byte("key = 1\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if c := FileExists(file); !c.Passed() {
		t.Errorf("FileExists(existing) failed: %+v", c)
	}
	if c := FileExists(filepath.Join(dir, "missing")); c.Passed() {
		t.Errorf("FileExists(missing) passed: %+v", c)
	}
	// A directory is not a file.
	if c := FileExists(dir); c.Passed() {
		t.Errorf("FileExists(directory) passed: %+v", c)
	}
}

func TestDirExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if c := DirExists(dir); !c.Passed() {
		t.Errorf("DirExists(existing) failed: %+v", c)
	}
	if c := DirExists(filepath.Join(dir, "missing")); c.Passed() {
		t.Errorf("DirExists(missing) passed: %+v", c)
	}
}

func TestCommandOnPath(t *testing.T) {
	t.Parallel()

	// The Go toolchain's test binary always runs with some shell available,
	// but "go" itself is the most portable guaranteed command here.
	if c := CommandOnPath("go"); !c.Passed() {
		t.Skipf("go not on PATH in test environment: %+v", c)
	}
	if c := CommandOnPath("definitely-not-a-real-command-xyz"); c.Passed() {
		t.Errorf("CommandOnPath(nonexistent) passed: %+v", c)
	}
}

func TestConfigParses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.toml")
	if err := os.WriteFile(valid, []byte("[tool]\nname = \"prompter\"\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if c := ConfigParses(valid); !c.Passed() || c.Status != StatusPass {
		t.Errorf("ConfigParses(valid) = %+v", c)
	}

	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("[tool\nname =\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if c := ConfigParses(invalid); c.Passed() {
		t.Errorf("ConfigParses(invalid) passed: %+v", c)
	}

	// Missing config is a warning, not a failure.
	if c := ConfigParses(filepath.Join(dir, "missing.toml")); c.Status != StatusWarn {
		t.Errorf("ConfigParses(missing) = %+v, want warning", c)
	}
}

func TestMinimumDiskSpace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// One byte of free space should always be available in a temp dir.
	if c := MinimumDiskSpace(dir, 1); c.Status == StatusFail {
		t.Errorf("MinimumDiskSpace(1 byte) failed: %+v", c)
	}
}
