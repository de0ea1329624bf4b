// SPDX-License-Identifier: MIT

// Package completion generates shell completion scripts for cobra-based
// Workhelix CLI tools. Each generated script is preceded by commented
// installation instructions for the target shell.
package completion

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Shells lists the supported completion targets.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// Generate writes installation instructions and the completion script for
// the given shell to w. The root command supplies the CLI schema and the
// binary name used in the instructions. Unsupported shells return an error
// naming the supported set.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	// Validate before emitting anything, so an unsupported shell leaves the
	// writer untouched.
	switch shell {
	case "bash", "zsh", "fish", "powershell":
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell)
	}

	bin := root.Name()

	fmt.Fprintf(w, "# Shell completion for %s\n#\n", bin)
	fmt.Fprintf(w, "# To enable completions, add this to your shell config:\n#\n")

	switch shell {
	case "bash":
		fmt.Fprintf(w, "# For bash (~/.bashrc):\n")
		fmt.Fprintf(w, "#   eval \"$(%s completion bash)\"\n", bin)
	case "zsh":
		fmt.Fprintf(w, "# For zsh (~/.zshrc):\n")
		fmt.Fprintf(w, "#   %s completion zsh > \"${fpath[1]}/_%s\"\n", bin, bin)
	case "fish":
		fmt.Fprintf(w, "# For fish:\n")
		fmt.Fprintf(w, "#   %s completion fish > ~/.config/fish/completions/%s.fish\n", bin, bin)
	case "powershell":
		fmt.Fprintf(w, "# For PowerShell ($PROFILE):\n")
		fmt.Fprintf(w, "#   %s completion powershell | Out-String | Invoke-Expression\n", bin)
	}

	fmt.Fprintln(w)

	switch shell {
	case "bash":
		return root.GenBashCompletion(w)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return nil
}

// NewCommand returns a ready-made `completion` subcommand for a host tool.
// The parent root is resolved at run time via cmd.Root(), so the command can
// be added before the rest of the CLI tree is assembled.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		DisableFlagsInUseLine: true,
		ValidArgs:             Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Generate(cmd.Root(), args[0], os.Stdout)
		},
	}
}
