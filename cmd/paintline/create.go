// Create command for the paintline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var createName string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new miniature type with zeroed stage counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createName == "" {
			fmt.Fprintln(os.Stderr, "create: --name is required")
			os.Exit(exitUserError)
		}

		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		mt, err := ledger.CreateType(createName)
		if err != nil {
			fail("create", err)
		}

		printType(mt)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "name of the miniature type (required)")
}
