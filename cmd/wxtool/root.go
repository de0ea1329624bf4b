// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	clicommon "github.com/workhelix/cli-common"
	"github.com/workhelix/cli-common/completion"
	"github.com/workhelix/cli-common/output"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// repo identifies where wxtool releases are published.
	repo = clicommon.NewRepoInfo("workhelix", "wxtool")

	// verbose enables debug-level logging on stderr.
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "wxtool",
		Short: "Reference CLI built on the Workhelix cli-common library",
		Long: output.TitleStyle.Render("wxtool") + output.SubtitleStyle.Render(" - reference CLI for cli-common") + `

wxtool exercises every package of the shared CLI library: shell
completion, environment diagnostics, license display, and GitHub-release
self-update with checksum verification and atomic binary replacement.

` + output.SubtitleStyle.Render("Examples:") + `
  wxtool doctor             Check the local environment
  wxtool update --check     Report whether a newer release exists
  wxtool update             Update to the latest release
  wxtool completion zsh     Print the zsh completion script`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(licenseCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(completion.NewCommand())
}

// configPath returns the location of the wxtool config file.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wxtool", "config.toml")
}

// initConfig loads the optional TOML config file and WXTOOL_* environment
// variables. A missing config file is not an error.
func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "wxtool"))
	}
	viper.SetEnvPrefix("WXTOOL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, output.Warning("config: "+err.Error()))
		}
	}

	if !verbose {
		verbose = viper.GetBool("verbose")
	}
}

// versionString formats the build metadata for display.
func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wxtool version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wxtool %s\n", versionString())
	},
}
