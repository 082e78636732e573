package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/praxiskit/praxis_backend/cmd/http"
	systemcmd "github.com/praxiskit/praxis_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "praxis",
	Short: "Praxis client portal backend for tax advisory practices.",
	Long: `Praxis is the client portal backend for tax advisory practices.
It serves the portal pages and API behind a single request pipeline that
handles tracing, rate limiting, and session authentication at the edge.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
