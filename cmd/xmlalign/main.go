package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	var verbosity int
	var logPath string

	rootCmd := &cobra.Command{
		Use:     "xmlalign",
		Short:   "Indent XML documents without touching their content",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logPath != "" {
				path = &logPath
			}
			commonlog.Configure(verbosity, path)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newUICmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
