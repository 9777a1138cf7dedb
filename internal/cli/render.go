package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/aicode/internal/markdown"
	"github.com/mithrel/aicode/internal/present"
)

func newRenderCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:         "render <file|->",
		Short:       "Render a documentation markdown file as blocks",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipWiring: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := outputOptions(cmd, outputMode, present.ModePlain, present.ModePretty, present.ModeJSON)
			if err != nil {
				return err
			}
			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			return present.RenderBlocks(cmd.OutOrStdout(), markdown.Render(string(data)), opts)
		},
	}
	addOutputFlag(cmd, &outputMode, present.ModePlain, present.ModePretty, present.ModeJSON)
	return cmd
}
