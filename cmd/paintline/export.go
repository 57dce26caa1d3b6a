// Export command for the paintline CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/paintline/pkg/types"
)

// exportDocument is the on-disk shape of a full-state export, shared with
// the import command and the HTTP API.
type exportDocument struct {
	Types []types.ExportType `json:"types"`
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the full ledger state as JSON",
	Long: `Export every type's name, absolute stage counts, and complete
ungrouped history as JSON. Writes to stdout unless a file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		exported, err := ledger.ExportAll()
		if err != nil {
			fail("export", err)
		}
		if exported == nil {
			exported = []types.ExportType{}
		}

		data, err := json.MarshalIndent(exportDocument{Types: exported}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		if len(args) == 0 {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(args[0], append(data, '\n'), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		fmt.Printf("exported %d types to %s\n", len(exported), args[0])
		return nil
	},
}
