package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/mithrel/aicode/internal/present"
	"github.com/mithrel/aicode/pkg/api"
)

const defaultPager = "less -FRSX"

func renderReviews(ctx context.Context, out, errOut io.Writer, reviews []api.Review, opts present.Options) error {
	if opts.Mode == present.ModeTUI {
		return present.RenderReviews(ctx, out, reviews, opts)
	}
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderReviews(ctx, w, reviews, opts)
	})
}

func renderReview(ctx context.Context, out, errOut io.Writer, r api.Review, opts present.Options) error {
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderReview(w, r, opts)
	})
}

func renderResult(ctx context.Context, out, errOut io.Writer, r api.Result, opts present.Options) error {
	return withPager(ctx, out, errOut, func(w io.Writer) error {
		return present.RenderResult(w, r, opts)
	})
}

// withPager pipes output through $PAGER when out is a terminal.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
