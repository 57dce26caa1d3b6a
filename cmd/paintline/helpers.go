// Shared helpers for paintline CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dukaforge/paintline/pkg/sqlite"
	"github.com/dukaforge/paintline/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer ledger.Detach().
func attachBackend() (types.Ledger, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	ledger := sqlite.NewBackend()
	if err := ledger.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return ledger, nil
}

// fail prints the error and exits. Rejectable input gets exitUserError,
// anything unexpected exitSysError.
func fail(context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", context, err)
	if types.ErrorCode(err) == types.CodeInternal {
		os.Exit(exitSysError)
	}
	os.Exit(exitUserError)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail("encode json", err)
	}
	fmt.Println(string(data))
}

// typeJSON is the CLI's JSON shape for a type, counters keyed by stage
// token.
type typeJSON struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Counts map[string]int `json:"counts"`
}

func newTypeJSON(mt *types.MiniatureType) typeJSON {
	counts := make(map[string]int, types.StageCount)
	for _, stage := range types.Stages() {
		counts[stage.String()] = mt.Counts[stage]
	}
	return typeJSON{ID: mt.ID, Name: mt.Name, Counts: counts}
}

// printType writes one type either as JSON or as an aligned text block.
func printType(mt *types.MiniatureType) {
	if flagJSON {
		printJSON(newTypeJSON(mt))
		return
	}
	fmt.Printf("%s  %s\n", mt.ID, mt.Name)
	for _, stage := range types.Stages() {
		fmt.Printf("  %-10s %d\n", stage, mt.Counts[stage])
	}
	fmt.Printf("  %-10s %d\n", "total", mt.Counts.Total())
}
