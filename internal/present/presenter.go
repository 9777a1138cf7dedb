package present

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mithrel/aicode/internal/markdown"
	"github.com/mithrel/aicode/internal/present/format"
	"github.com/mithrel/aicode/internal/present/tui"
	"github.com/mithrel/aicode/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeTUI
)

func (m Mode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModeJSON:
		return "json"
	case ModeTUI:
		return "tui"
	default:
		return "plain"
	}
}

type Options struct {
	Mode        Mode
	JSONIndent  bool
	Headers     bool
	PrettyStyle string
	WordWrap    int
	// Now anchors relative ages in history listings; zero means time.Now.
	Now time.Time
	// History is used by ModeTUI listings.
	History tui.HistoryOptions
}

// ParseMode parses "plain", "pretty", "json" or "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain", "":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

var errTUIUnsupported = errors.New("tui output is only available for history listings")

// RenderResult renders one analysis result.
func RenderResult(w io.Writer, r api.Result, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONResult(w, r, opts.JSONIndent)
	case ModePretty:
		return format.WritePrettyResult(w, r, format.PrettyOptions{Style: opts.PrettyStyle, WordWrap: opts.WordWrap})
	case ModeTUI:
		return errTUIUnsupported
	default:
		return format.WritePlainResult(w, r)
	}
}

// RenderBlocks renders renderer output on its own.
func RenderBlocks(w io.Writer, blocks []markdown.Block, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONBlocks(w, blocks, opts.JSONIndent)
	case ModePretty:
		if len(blocks) == 0 {
			return nil
		}
		_, err := io.WriteString(w, format.StyledBlocks(blocks, format.DefaultStyles())+"\n")
		return err
	case ModeTUI:
		return errTUIUnsupported
	default:
		return format.WritePlainBlocks(w, blocks)
	}
}

// RenderReviews renders a history listing.
func RenderReviews(ctx context.Context, w io.Writer, reviews []api.Review, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONReviews(w, reviews, opts.JSONIndent)
	case ModeTUI:
		h := opts.History
		h.Headers = opts.Headers
		return tui.RenderHistory(ctx, reviews, h)
	default:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		return format.WritePlainReviews(w, reviews, opts.Headers, now)
	}
}

// RenderReview renders one stored review.
func RenderReview(w io.Writer, r api.Review, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONReview(w, r, opts.JSONIndent)
	case ModePretty:
		head := "ID: " + r.ID + "\nCreated: " + r.CreatedAt.Local().Format(time.RFC3339) +
			"\n\nQuery:\n" + format.Sanitize(r.Query) + "\n\n"
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		return format.WritePrettyResult(w, r.Result, format.PrettyOptions{Style: opts.PrettyStyle, WordWrap: opts.WordWrap})
	case ModeTUI:
		return errTUIUnsupported
	default:
		return format.WritePlainReview(w, r)
	}
}
