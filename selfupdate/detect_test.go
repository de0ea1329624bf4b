// SPDX-License-Identifier: MIT

package selfupdate

import (
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
)

// swapBuildInfo replaces the build-info seam and restores it on cleanup.
// Tests using it must not run in parallel.
func swapBuildInfo(t *testing.T, modulePath string, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		if !ok {
			return nil, false
		}
		return &debug.BuildInfo{Path: modulePath}, true
	}
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestDetectInstallMethod_Homebrew(t *testing.T) {
	t.Parallel()

	paths := []string{
		"/opt/homebrew/bin/prompter",
		"/usr/local/Cellar/prompter/1.0.0/bin/prompter",
		"/home/linuxbrew/.linuxbrew/bin/prompter",
	}

	for _, path := range paths {
		if got := DetectInstallMethod(path, testRepo); got != InstallMethodHomebrew {
			t.Errorf("DetectInstallMethod(%q) = %v, want homebrew", path, got)
		}
	}
}

func TestDetectInstallMethod_GoInstall(t *testing.T) {
	gopath := t.TempDir()
	t.Setenv("GOPATH", gopath)
	swapBuildInfo(t, "github.com/workhelix/prompter", true)

	path := filepath.Join(gopath, "bin", "prompter")
	if got := DetectInstallMethod(path, testRepo); got != InstallMethodGoInstall {
		t.Errorf("DetectInstallMethod(%q) = %v, want go install", path, got)
	}
}

func TestDetectInstallMethod_GOPATHBinWithoutBuildInfoIsUnknown(t *testing.T) {
	// A manually-placed binary in GOPATH/bin is not a go install.
	gopath := t.TempDir()
	t.Setenv("GOPATH", gopath)
	swapBuildInfo(t, "", false)

	path := filepath.Join(gopath, "bin", "prompter")
	if got := DetectInstallMethod(path, testRepo); got != InstallMethodUnknown {
		t.Errorf("DetectInstallMethod(%q) = %v, want unknown", path, got)
	}
}

func TestDetectInstallMethod_GOPATHPrefixBoundary(t *testing.T) {
	// /home/u/gobin must not pass as /home/u/go/bin.
	gopath := t.TempDir()
	t.Setenv("GOPATH", filepath.Join(gopath, "go"))
	swapBuildInfo(t, "github.com/workhelix/prompter", true)

	path := filepath.Join(gopath, "gobin", "prompter")
	if got := DetectInstallMethod(path, testRepo); got != InstallMethodUnknown {
		t.Errorf("DetectInstallMethod(%q) = %v, want unknown", path, got)
	}
}

func TestDetectInstallMethod_PlainPathIsUnknown(t *testing.T) {
	t.Setenv("GOPATH", t.TempDir())

	if got := DetectInstallMethod("/usr/local/bin/prompter", testRepo); got != InstallMethodUnknown {
		t.Errorf("DetectInstallMethod = %v, want unknown", got)
	}
}

func TestInstallMethod_ManagedAndGuidance(t *testing.T) {
	t.Parallel()

	if InstallMethodUnknown.Managed() {
		t.Error("unknown install method reported as managed")
	}
	if !InstallMethodHomebrew.Managed() || !InstallMethodGoInstall.Managed() {
		t.Error("package-manager install methods not reported as managed")
	}

	if g := InstallMethodHomebrew.Guidance(testRepo); !strings.Contains(g, "brew upgrade prompter") {
		t.Errorf("homebrew guidance = %q", g)
	}
	if g := InstallMethodGoInstall.Guidance(testRepo); !strings.Contains(g, "go install github.com/workhelix/prompter@latest") {
		t.Errorf("go install guidance = %q", g)
	}
	if g := InstallMethodUnknown.Guidance(testRepo); g != "" {
		t.Errorf("unknown guidance = %q, want empty", g)
	}
}
