// Version command for the paintline CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/paintline/pkg/paintline"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the paintline version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("paintline", paintline.Version)
	},
}
