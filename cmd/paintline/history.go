// History command for the paintline CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var historyUngrouped bool

// historyItemJSON is the CLI's JSON shape for one history row.
type historyItemJSON struct {
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	Qty       int       `json:"qty"`
	Timestamp time.Time `json:"timestamp"`
}

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a type's stage transition history",
	Long: `Show a type's stage transition history. By default adjacent
same-transition entries within the grouping window are merged; pass
--ungrouped for the raw log.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "history:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		var items []historyItemJSON
		if historyUngrouped {
			entries, err := ledger.History(args[0])
			if err != nil {
				fail("history", err)
			}
			for _, e := range entries {
				items = append(items, historyItemJSON{
					FromStage: e.From.String(),
					ToStage:   e.To.String(),
					Qty:       e.Qty,
					Timestamp: e.At,
				})
			}
		} else {
			groups, err := ledger.GroupedHistory(args[0])
			if err != nil {
				fail("history", err)
			}
			for _, g := range groups {
				items = append(items, historyItemJSON{
					FromStage: g.From.String(),
					ToStage:   g.To.String(),
					Qty:       g.Qty,
					Timestamp: g.At,
				})
			}
		}

		if flagJSON {
			if items == nil {
				items = []historyItemJSON{}
			}
			printJSON(map[string]any{"items": items})
			return nil
		}

		if len(items) == 0 {
			fmt.Println("no history")
			return nil
		}
		for _, item := range items {
			fmt.Printf("%s  %-10s -> %-10s %d\n",
				item.Timestamp.UTC().Format(time.RFC3339),
				item.FromStage, item.ToStage, item.Qty)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyUngrouped, "ungrouped", false, "print the raw log without merging")
}
