package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mithrel/aicode/internal/config"
	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/internal/present/tui"
	"github.com/mithrel/aicode/internal/wire"
)

func newChatCmd() *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "chat [query...]",
		Short: "Open the interactive review chat",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			closeLog, err := logToFile(app)
			if err != nil {
				return err
			}
			defer closeLog()

			var store db.Store
			if app.Cfg.GetBool("history.enabled") && !noSave {
				store = app.Store
			}
			return tui.RunChat(cmd.Context(), tui.ChatOptions{
				Analyzer:      app.Client,
				Store:         store,
				Copier:        app.Clipboard,
				Logger:        app.Log,
				CopiedTimeout: config.Duration(app.Cfg, "tui.copied_timeout", 2*time.Second),
				PrettyStyle:   app.Cfg.GetString("pretty.style"),
				InitialQuery:  strings.Join(args, " "),
			})
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record reviews from this session")
	return cmd
}

// logToFile points the app logger at log.file while a TUI owns the screen.
// tea.LogToFile also redirects the global logger, so restore puts both back.
func logToFile(app *wire.App) (func(), error) {
	path := config.ResolveLogPath(app.Cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	prevGlobal := log.Writer()
	f, err := tea.LogToFile(path, "aicode")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	prev := app.Log.Writer()
	app.Log.SetOutput(f)
	return func() {
		app.Log.SetOutput(prev)
		log.SetOutput(prevGlobal)
		_ = f.Close()
	}, nil
}
