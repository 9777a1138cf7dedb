package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/aicode/internal/config"
	"github.com/mithrel/aicode/internal/db"
	"github.com/mithrel/aicode/internal/present"
	"github.com/mithrel/aicode/internal/present/tui"
	"github.com/mithrel/aicode/internal/util"
	"github.com/mithrel/aicode/pkg/api"
)

type filterOpts struct {
	Since string
	Until string
	Limit int
}

func addFilterFlags(cmd *cobra.Command, f *filterOpts) {
	cmd.Flags().StringVar(&f.Since, "since", "", "only reviews newer than this (2h, 3d, 2w, 1mo, 2026-05-01)")
	cmd.Flags().StringVar(&f.Until, "until", "", "only reviews older than this")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "maximum rows (0 uses history.page_size)")
}

func (f filterOpts) query(cmd *cobra.Command) (api.ListQuery, error) {
	since, until, err := util.ParseTimeRange(f.Since, f.Until)
	if err != nil {
		return api.ListQuery{}, err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = getApp(cmd).Cfg.GetInt("history.page_size")
	}
	return api.ListQuery{Since: since, Until: until, Limit: limit}, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Browse past reviews",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySearchCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var filters filterOpts
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reviews, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := outputOptions(cmd, outputMode, present.ModePlain, present.ModeJSON, present.ModeTUI)
			if err != nil {
				return err
			}
			opts.Headers = !noHeaders
			q, err := filters.query(cmd)
			if err != nil {
				return err
			}
			start := time.Now()
			reviews, err := app.Store.ListReviews(cmd.Context(), q)
			if err != nil {
				return err
			}
			if opts.Mode == present.ModeTUI {
				closeLog, err := logToFile(app)
				if err != nil {
					return err
				}
				defer closeLog()
				opts.History = tui.HistoryOptions{
					Store:           app.Store,
					Copier:          app.Clipboard,
					Logger:          app.Log,
					InitialStatus:   fmt.Sprintf("loaded %d reviews", len(reviews)),
					InitialDuration: time.Since(start).Round(time.Millisecond),
					CopiedTimeout:   config.Duration(app.Cfg, "tui.copied_timeout", 2*time.Second),
				}
			}
			return renderReviews(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), reviews, opts)
		},
	}
	addFilterFlags(cmd, &filters)
	addOutputFlag(cmd, &outputMode, present.ModePlain, present.ModeJSON, present.ModeTUI)
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stored review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := outputOptions(cmd, outputMode, present.ModePlain, present.ModePretty, present.ModeJSON)
			if err != nil {
				return err
			}
			r, err := app.Store.GetReview(cmd.Context(), args[0])
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("review %s not found", args[0])
			}
			if err != nil {
				return err
			}
			return renderReview(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), r, opts)
		},
	}
	addOutputFlag(cmd, &outputMode, present.ModePlain, present.ModePretty, present.ModeJSON)
	return cmd
}

// searchWindow is how many recent reviews a search ranks.
const searchWindow = 1000

func newHistorySearchCmd() *cobra.Command {
	var filters filterOpts
	var outputMode string
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Fuzzy-search stored queries and answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := outputOptions(cmd, outputMode, present.ModePlain, present.ModeJSON)
			if err != nil {
				return err
			}
			q, err := filters.query(cmd)
			if err != nil {
				return err
			}
			limit := q.Limit
			q.Limit = searchWindow
			reviews, err := app.Store.ListReviews(cmd.Context(), q)
			if err != nil {
				return err
			}
			ranked := util.RankReviews(args[0], reviews, limit)
			return renderReviews(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ranked, opts)
		},
	}
	addFilterFlags(cmd, &filters)
	addOutputFlag(cmd, &outputMode, present.ModePlain, present.ModeJSON)
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id...>",
		Short: "Delete stored reviews",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if len(args) > 1 {
				if err := confirmDelete(cmd.InOrStdin(), fmt.Sprintf("Delete %d reviews?", len(args)), "This will permanently delete the selected reviews.", yes); err != nil {
					return err
				}
			}
			for _, id := range args {
				err := app.Store.DeleteReview(cmd.Context(), id)
				if errors.Is(err, db.ErrNotFound) {
					return fmt.Errorf("review %s not found", id)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation prompt for bulk deletes")
	return cmd
}

func confirmDelete(in io.Reader, title, desc string, yes bool) error {
	if yes {
		return nil
	}
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(f.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
