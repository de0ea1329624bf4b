// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	clicommon "github.com/workhelix/cli-common"
	"github.com/workhelix/cli-common/doctor"
)

// minFreeDiskBytes is the free-space floor for the install directory (50 MB):
// enough headroom to stage a downloaded binary next to the running one.
const minFreeDiskBytes = 50 << 20

// checker implements doctor.Checker for wxtool.
type checker struct{}

func (checker) RepoInfo() clicommon.RepoInfo { return repo }

func (checker) CurrentVersion() string { return versionString() }

func (checker) Checks() []doctor.Check {
	checks := []doctor.Check{
		doctor.ConfigParses(configPath()),
		doctor.CommandOnPath("git"),
		doctor.BinaryWritable(),
	}

	if exe, err := os.Executable(); err == nil {
		checks = append(checks, doctor.MinimumDiskSpace(filepath.Dir(exe), minFreeDiskBytes))
	}

	return checks
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local environment for problems",
	Long: `Check the local environment for problems.

Verifies that the config file parses, required commands are on PATH,
the installed binary can be replaced in place, and the install
directory has enough free disk space for a self-update.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		if code := doctor.Run(cmd.OutOrStdout(), checker{}); code != 0 {
			return &ExitError{Code: code}
		}
		return nil
	},
}
