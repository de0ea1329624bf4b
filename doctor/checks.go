// SPDX-License-Identifier: MIT

package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/shirou/gopsutil/v4/disk"
)

// Stock checks shared by most tools. Each constructor runs the check
// immediately and returns the result; Checker implementations compose them
// inside Checks().

// FileExists checks that a regular file exists at path.
func FileExists(path string) Check {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Fail(fmt.Sprintf("File check: %s", path), fmt.Sprintf("File not found: %s", path))
	}
	return Pass(fmt.Sprintf("File exists: %s", path))
}

// DirExists checks that a directory exists at path.
func DirExists(path string) Check {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Fail(fmt.Sprintf("Directory check: %s", path), fmt.Sprintf("Directory not found: %s", path))
	}
	return Pass(fmt.Sprintf("Directory exists: %s", path))
}

// CommandOnPath checks that an executable is resolvable via PATH.
func CommandOnPath(name string) Check {
	if _, err := exec.LookPath(name); err != nil {
		return Fail(fmt.Sprintf("Command check: %s", name), fmt.Sprintf("%s not found on PATH", name))
	}
	return Pass(fmt.Sprintf("Command available: %s", name))
}

// ConfigParses checks that the TOML file at path is syntactically valid.
// A missing config file is a warning, not a failure: tools run with
// defaults when no config is present.
func ConfigParses(path string) Check {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Warn(fmt.Sprintf("Config file: %s", path), "not present, using defaults")
		}
		return Fail(fmt.Sprintf("Config file: %s", path), err.Error())
	}

	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return Fail(fmt.Sprintf("Config file: %s", path), fmt.Sprintf("invalid TOML: %v", err))
	}
	return Pass(fmt.Sprintf("Config parses: %s", path))
}

// MinimumDiskSpace checks that the filesystem containing path has at least
// minBytes of free space. Self-update stages a full copy of the binary next
// to the current one, so tools typically check the executable's directory.
func MinimumDiskSpace(path string, minBytes uint64) Check {
	usage, err := disk.Usage(path)
	if err != nil {
		return Warn(fmt.Sprintf("Disk space: %s", path), fmt.Sprintf("could not read usage: %v", err))
	}
	if usage.Free < minBytes {
		return Fail(
			fmt.Sprintf("Disk space: %s", path),
			fmt.Sprintf("%d bytes free, need at least %d", usage.Free, minBytes),
		)
	}
	return Pass(fmt.Sprintf("Disk space: %s (%d MB free)", path, usage.Free>>20))
}

// BinaryWritable checks that the directory holding the running executable
// is writable, which self-update requires for staging and replacement.
func BinaryWritable() Check {
	exe, err := os.Executable()
	if err != nil {
		return Fail("Binary writable", fmt.Sprintf("cannot locate executable: %v", err))
	}

	dir := filepath.Dir(exe)
	probe, err := os.CreateTemp(dir, ".doctor-probe-*")
	if err != nil {
		return Fail("Binary writable", fmt.Sprintf("%s is not writable: %v", dir, err))
	}
	probe.Close()
	os.Remove(probe.Name())

	return Pass(fmt.Sprintf("Binary location writable: %s", dir))
}
