// Get command for the paintline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one miniature type with its stage counters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		mt, err := ledger.GetType(args[0])
		if err != nil {
			fail("get", err)
		}

		printType(mt)
		return nil
	},
}
