package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlalign/markup"
	"github.com/dhamidi/xmlalign/project"
)

func newTokensCmd() *cobra.Command {
	var outputFormat string
	var compact bool
	var content string

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the tokens the formatter sees in a document",
		Long: `Dump the token stream of a document, one token per line.

With --compact, only the tokens left after stripping layout are shown.
If no file is provided, reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			if len(args) == 0 {
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				source, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			tokens, err := markup.Tokenize(source)
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			if compact {
				policy, err := project.ContentPolicy(content)
				if err != nil {
					return err
				}
				tokens = markup.Delayer(tokens, policy)
			}

			switch outputFormat {
			case "line":
				for _, tok := range tokens {
					fmt.Println(tok)
				}
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(tokens); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected line or json)", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")
	cmd.Flags().BoolVar(&compact, "compact", false, "drop layout tokens first")
	cmd.Flags().StringVar(&content, "content", "sole", "content policy for --compact (sole|nonblank)")

	return cmd
}
