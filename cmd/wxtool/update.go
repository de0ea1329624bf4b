// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/workhelix/cli-common/output"
	"github.com/workhelix/cli-common/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update [version]",
	Short: "Update wxtool to the latest release or a specific version",
	Long: `Update wxtool to the latest release or a specific version.

The update command downloads the new binary from GitHub Releases,
verifies its SHA256 checksum, and atomically replaces the current
binary. If the replacement fails the previous binary is restored.`,
	Example: `  # Update to the latest release
  wxtool update

  # Check for updates without installing
  wxtool update --check

  # Update to a specific version
  wxtool update 1.2.0

  # Skip the confirmation prompt
  wxtool update --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		checkOnly, _ := cmd.Flags().GetBool("check")
		force, _ := cmd.Flags().GetBool("force")
		yes, _ := cmd.Flags().GetBool("yes")
		installDir, _ := cmd.Flags().GetString("install-dir")

		var target string
		if len(args) > 0 {
			target = args[0]
		}

		// A token raises the API rate limit from 60 to 5000 requests/hour.
		var clientOpts []selfupdate.ClientOption
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			clientOpts = append(clientOpts, selfupdate.WithToken(token))
		}
		clientOpts = append(clientOpts, selfupdate.WithUserAgent("wxtool/"+Version))

		logLevel := log.WarnLevel
		if verbose {
			logLevel = log.DebugLevel
		}
		logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Level: logLevel})

		updater := selfupdate.New(repo, Version,
			selfupdate.WithClient(selfupdate.NewClient(clientOpts...)),
			selfupdate.WithLogger(logger),
		)

		stdout := cmd.OutOrStdout()

		if checkOnly {
			check, err := updater.Check(cmd.Context(), target)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return &ExitError{Code: 2, Err: err}
			}
			fmt.Fprintf(stdout, "Current version: %s\n", check.CurrentVersion)
			fmt.Fprintf(stdout, "Target version:  %s\n", check.TargetVersion)
			if check.UpToDate {
				fmt.Fprintln(stdout, output.Success("Already up to date."))
			} else {
				fmt.Fprintf(stdout, "\nAn update is available: %s -> %s\n", check.CurrentVersion, check.TargetVersion)
				fmt.Fprintln(stdout, "Run "+output.CmdStyle.Render("wxtool update")+" to install.")
			}
			return nil
		}

		if !yes && !confirmUpdate(cmd) {
			fmt.Fprintln(stdout, "Update canceled.")
			return nil
		}

		code := updater.Run(cmd.Context(), selfupdate.Options{
			Version:    target,
			Force:      force,
			InstallDir: installDir,
			Stdout:     stdout,
			Stderr:     cmd.ErrOrStderr(),
		})
		if code != 0 {
			return &ExitError{Code: code}
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Check for an available update without installing")
	updateCmd.Flags().Bool("force", false, "Reinstall even when already at the target version")
	updateCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	updateCmd.Flags().String("install-dir", "", "Install into this directory instead of replacing the running binary")
}

// confirmUpdate asks the user to approve the update. Non-interactive runs
// (piped stdin, CI) proceed without prompting; use --yes to be explicit.
func confirmUpdate(cmd *cobra.Command) bool {
	if !output.IsTTY() {
		return true
	}

	ok, err := readAnswer(cmd)
	return err == nil && ok
}

// readAnswer prompts on the command's stdout and reads a yes/no line from
// its stdin. Only "y" and "yes" (case-insensitive) count as approval.
func readAnswer(cmd *cobra.Command) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Proceed with the update? [y/N]: ")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
