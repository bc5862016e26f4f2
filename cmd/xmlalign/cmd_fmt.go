package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/xmlalign/format"
	"github.com/dhamidi/xmlalign/project"
)

type fmtFlags struct {
	write         bool
	list          bool
	diff          bool
	check         bool
	indent        string
	content       string
	keepUndefined bool
	noValidate    bool
	finalNewline  bool
	jobs          int
}

func newFmtCmd() *cobra.Command {
	var flags fmtFlags

	cmd := &cobra.Command{
		Use:   "fmt [path...]",
		Short: "Re-indent XML files, keeping their content byte for byte",
		Long: `Re-indent XML documents.

With no path, reads a document from stdin and writes the result to stdout.
Directories are searched for files with the configured extensions.

Settings come from the nearest .xmlalign.toml; flags override them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := fmtOptions(cmd, flags)
			if err != nil {
				return err
			}

			stderr, err := newPrinter(cmd, os.Stderr)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if flags.write || flags.list {
					return fmt.Errorf("-w and -l require a path argument")
				}
				return fmtStdin(os.Stdin, os.Stdout, opts.Options, flags, stderr)
			}

			stdout, err := newPrinter(cmd, os.Stdout)
			if err != nil {
				return err
			}
			return fmtPaths(cmd, args, opts, flags, stdout, stderr)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "overwrite files in place")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print diffs instead of formatted output")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit with an error if any file needs formatting")
	cmd.Flags().StringVar(&flags.indent, "indent", "", "indentation unit (default from config, else a tab)")
	cmd.Flags().StringVar(&flags.content, "content", "", "text kept when stripping layout (sole|nonblank)")
	cmd.Flags().BoolVar(&flags.keepUndefined, "keep-undefined", false, "pass <!DOCTYPE> and other unknown constructs through")
	cmd.Flags().BoolVar(&flags.noValidate, "no-validate", false, "skip the well-formedness check")
	cmd.Flags().BoolVar(&flags.finalNewline, "final-newline", false, "end output with a newline")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "files formatted in parallel (default GOMAXPROCS)")

	return cmd
}

func fmtOptions(cmd *cobra.Command, flags fmtFlags) (format.PathOptions, error) {
	proj, err := project.Load()
	if err != nil {
		return format.PathOptions{}, err
	}
	opts := proj.Config.Options()

	if cmd.Flags().Changed("indent") {
		if flags.indent == "" {
			return format.PathOptions{}, fmt.Errorf("--indent must not be empty")
		}
		opts.Indent = flags.indent
	}
	if cmd.Flags().Changed("content") {
		policy, err := project.ContentPolicy(flags.content)
		if err != nil {
			return format.PathOptions{}, err
		}
		opts.Content = policy
	}
	if cmd.Flags().Changed("keep-undefined") {
		opts.KeepUndefined = flags.keepUndefined
	}
	if flags.noValidate {
		opts.Validator = format.NoValidation
	}
	if cmd.Flags().Changed("final-newline") {
		opts.FinalNewline = flags.finalNewline
	}
	opts.Jobs = flags.jobs
	return opts, nil
}

// Failures already reported on stderr end the command with these
// summary errors rather than repeating the message.
var (
	errFormatFailed  = errors.New("fmt: failed to format some files")
	errChangesNeeded = errors.New("fmt: formatting changes required")
)

func fmtStdin(in io.Reader, out io.Writer, opts format.Options, flags fmtFlags, stderr *printer) error {
	source, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	res, err := format.Format(source, opts)
	if err != nil {
		stderr.warning("", format.FailedMessage(err))
		return errFormatFailed
	}

	switch {
	case flags.diff:
		if _, err := io.WriteString(out, format.Diff("<stdin>", source, res.Formatted)); err != nil {
			return err
		}
	case flags.check:
	default:
		if _, err := out.Write(res.Formatted); err != nil {
			return err
		}
	}
	if flags.check && res.Changed {
		return errChangesNeeded
	}
	stderr.status("", format.CompletedMessage(res.Elapsed))
	return nil
}

func fmtPaths(cmd *cobra.Command, args []string, opts format.PathOptions, flags fmtFlags, stdout, stderr *printer) error {
	results, err := format.FormatPaths(cmd.Context(), args, opts)
	if err != nil {
		return err
	}

	var failed, changed bool
	for _, res := range results {
		if res.Err != nil {
			failed = true
			stderr.warning(res.Path, format.FailedMessage(res.Err))
			continue
		}
		if res.Changed {
			changed = true
		}

		if flags.list && res.Changed {
			stdout.plain(res.Path)
		}
		if flags.diff {
			stdout.diff(format.Diff(res.Path, res.Original, res.Formatted))
		}
		if flags.write {
			if res.Changed {
				if err := writeFile(res.Path, res.Formatted); err != nil {
					failed = true
					stderr.warning(res.Path, err.Error())
					continue
				}
			}
			stderr.status(res.Path, format.CompletedMessage(res.Elapsed))
		}
		if !flags.write && !flags.list && !flags.diff && !flags.check {
			if err := writeDocument(os.Stdout, res.Formatted); err != nil {
				return err
			}
		}
	}

	if failed {
		return errFormatFailed
	}
	if flags.check && changed {
		return errChangesNeeded
	}
	return nil
}

// writeDocument writes data followed by a newline if it lacks one, so
// consecutive documents start on their own line.
func writeDocument(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && !bytes.HasSuffix(data, []byte("\n")) {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// writeFile replaces path's content, keeping its permissions.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
