// Move command for the paintline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/paintline/pkg/types"
)

var (
	moveFrom string
	moveTo   string
	moveQty  int
)

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Move units of a type forward through the pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if moveFrom == "" || moveTo == "" {
			fmt.Fprintln(os.Stderr, "move: --from and --to are required")
			os.Exit(exitUserError)
		}

		from, err := types.ParseStage(moveFrom)
		if err != nil {
			fail("move", err)
		}
		to, err := types.ParseStage(moveTo)
		if err != nil {
			fail("move", err)
		}

		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "move:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		counts, err := ledger.Move(args[0], from, to, moveQty)
		if err != nil {
			fail("move", err)
		}

		mt, err := ledger.GetType(args[0])
		if err != nil {
			fail("move", err)
		}
		mt.Counts = counts
		printType(mt)
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveFrom, "from", "", "source stage token (required)")
	moveCmd.Flags().StringVar(&moveTo, "to", "", "destination stage token (required)")
	moveCmd.Flags().IntVar(&moveQty, "qty", 1, "units to move")
}
