// Import command for the paintline CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/paintline/pkg/types"
)

// importDocument mirrors exportDocument, so an export file can be imported
// back verbatim.
type importDocument struct {
	Types []types.ImportItem `json:"types"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON export into the ledger",
	Long: `Merge a previously exported JSON document into the ledger. Counts
are added to existing counters and history entries are appended verbatim;
the whole batch applies atomically or not at all.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitUserError)
		}

		var doc importDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			fmt.Fprintf(os.Stderr, "import: %v: %v\n", types.ErrInvalidImportFormat, err)
			os.Exit(exitUserError)
		}

		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		if err := ledger.ImportBatch(doc.Types); err != nil {
			fail("import", err)
		}

		fmt.Printf("imported %d types from %s\n", len(doc.Types), args[0])
		return nil
	},
}
