// Delete command for the paintline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a miniature type, its counters, and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		if err := ledger.DeleteType(args[0]); err != nil {
			fail("delete", err)
		}

		fmt.Println("deleted", args[0])
		return nil
	},
}
