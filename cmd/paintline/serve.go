// Serve command for the paintline CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/paintline/internal/server"
	"github.com/dukaforge/paintline/pkg/types"
)

var flagListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}

		addr := configListenAddr
		if flagListenAddr != "" {
			addr = flagListenAddr
		}
		if addr == "" {
			addr = types.DefaultListenAddr
		}

		cfg := types.Config{
			Backend:            types.BackendSQLite,
			DataDir:            dataDir,
			ListenAddr:         addr,
			CORSAllowedOrigins: configCORSOrigins,
			LogLevel:           configLogLevel,
		}

		ledger, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}
		defer ledger.Detach()

		log := server.NewLogger(cfg.LogLevel)
		srv := server.New(ledger, cfg, log)
		if err := srv.Run(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListenAddr, "listen", "", "listen address (default from config, then "+types.DefaultListenAddr+")")
}
