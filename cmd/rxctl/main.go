// Command rxctl is the operator CLI for the prescription service. It runs
// the same normalizer, address, postal code, image and identity upsert code
// as the API, against the backend configured in the environment.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/logging"
)

var logLevel string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rxctl",
		Short:         "Operator tools for the clinic prescription service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, set := os.LookupEnv("LOG_LEVEL"); !set {
				_ = os.Setenv("LOG_LEVEL", logLevel)
			}
			if err := logging.InitLogger(); err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			return config.LoadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level when LOG_LEVEL is unset")

	root.AddCommand(
		newNormalizeCommand(),
		newComposeCommand(),
		newDecomposeCommand(),
		newCEPCommand(),
		newImageCommand(),
		newPreviewCommand(),
	)
	return root
}

// printJSON writes v indented, one document per call
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rxctl:", err)
		os.Exit(1)
	}
}
