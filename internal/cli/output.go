package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/aicode/internal/present"
)

// outputOptions resolves --output, falling back to output.mode, and rejects
// modes the command does not support.
func outputOptions(cmd *cobra.Command, flagVal string, allowed ...present.Mode) (present.Options, error) {
	app := getApp(cmd)
	raw := strings.ToLower(strings.TrimSpace(flagVal))
	if raw == "" {
		raw = strings.ToLower(app.Cfg.GetString("output.mode"))
	}
	mode, ok := present.ParseMode(raw)
	if !ok || !slices.Contains(allowed, mode) {
		if flagVal == "" {
			// a config default the command cannot honor falls back to plain
			mode = present.ModePlain
		} else {
			return present.Options{}, fmt.Errorf("invalid --output: %s", flagVal)
		}
	}
	return present.Options{
		Mode:        mode,
		JSONIndent:  false, // pretty-print via external tools like jq
		Headers:     true,
		PrettyStyle: app.Cfg.GetString("pretty.style"),
		WordWrap:    app.Cfg.GetInt("pretty.word_wrap"),
	}, nil
}

func addOutputFlag(cmd *cobra.Command, target *string, allowed ...present.Mode) {
	names := make([]string, 0, len(allowed))
	for _, m := range allowed {
		names = append(names, m.String())
	}
	cmd.Flags().StringVar(target, "output", "", "output mode: "+strings.Join(names, "|")+" (default from output.mode)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
