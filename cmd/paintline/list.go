// List command for the paintline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all miniature types with their stage counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		list, err := ledger.ListTypes()
		if err != nil {
			fail("list", err)
		}

		if flagJSON {
			items := make([]typeJSON, 0, len(list))
			for _, mt := range list {
				items = append(items, newTypeJSON(mt))
			}
			printJSON(map[string]any{"items": items})
			return nil
		}

		if len(list) == 0 {
			fmt.Println("no miniature types")
			return nil
		}
		for _, mt := range list {
			printType(mt)
		}
		return nil
	},
}
