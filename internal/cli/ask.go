package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/aicode/internal/clipboard"
	"github.com/mithrel/aicode/internal/editor"
	"github.com/mithrel/aicode/internal/present"
	"github.com/mithrel/aicode/pkg/api"
)

var errEmptyQuery = errors.New("empty query")

func newAskCmd() *cobra.Command {
	var file, outputMode string
	var edit, noSave, copyFix bool
	cmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Ask a question or submit code for review",
		Long: "Ask sends one query to the analysis service and prints the result.\n" +
			"The query comes from the arguments, --file, stdin (\"-\" or a pipe), or the editor (--edit).",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := outputOptions(cmd, outputMode, present.ModePlain, present.ModePretty, present.ModeJSON)
			if err != nil {
				return err
			}
			query, err := resolveQuery(cmd, args, file, edit)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := app.Client.Analyze(cmd.Context(), query)
			if err != nil {
				return err
			}
			if app.Cfg.GetBool("history.enabled") && !noSave {
				if _, err := app.Store.SaveReview(cmd.Context(), api.Review{Query: query, Result: res}); err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: review not saved: %v\n", err)
				}
			}
			if copyFix && res.CorrectedCode != "" {
				if clipboard.CopyQuiet(app.Clipboard, res.CorrectedCode, app.Log) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Copied corrected code to clipboard.")
				}
			}
			if opts.Mode != present.ModeJSON {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Analyzed in %s\n", time.Since(start).Round(time.Millisecond))
			}
			return renderResult(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), res, opts)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the query from a file (\"-\" for stdin)")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "compose the query in $EDITOR")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record this review in history")
	cmd.Flags().BoolVar(&copyFix, "copy", false, "copy the corrected code to the clipboard")
	addOutputFlag(cmd, &outputMode, present.ModePlain, present.ModePretty, present.ModeJSON)
	return cmd
}

// resolveQuery picks the query source: --file, "-" or piped stdin, the
// joined arguments, and finally the editor. With --edit any of the earlier
// sources seeds the editor buffer.
func resolveQuery(cmd *cobra.Command, args []string, file string, edit bool) (string, error) {
	var query string
	switch {
	case file == "-" || (len(args) == 1 && args[0] == "-"):
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		query = string(b)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		query = string(b)
	case len(args) > 0:
		query = strings.Join(args, " ")
	case !edit && stdinPiped(cmd.InOrStdin()):
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		query = string(b)
	default:
		edit = true
	}
	if edit {
		edited, err := editor.EditQuery(query)
		if err != nil {
			return "", err
		}
		query = edited
	}
	if strings.TrimSpace(query) == "" {
		return "", errEmptyQuery
	}
	return query, nil
}

// stdinPiped reports whether r has data to read without a keyboard behind it.
func stdinPiped(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return !term.IsTerminal(f.Fd())
	}
	return r != nil
}
