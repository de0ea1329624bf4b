// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workhelix/cli-common/license"
)

var licenseCmd = &cobra.Command{
	Use:       "license [type]",
	Short:     "Display the license for this tool",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"mit", "apache-2.0", "cc0"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		t := license.MIT
		if len(args) > 0 {
			var ok bool
			if t, ok = license.Parse(args[0]); !ok {
				return fmt.Errorf("unknown license type %q", args[0])
			}
		}

		return license.Render(cmd.OutOrStdout(), "wxtool", t)
	},
}
