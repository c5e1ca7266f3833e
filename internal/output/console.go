package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/risk"
)

type ConsoleOptions struct {
	// Detailed adds one line per project after the summary.
	Detailed bool
	// Color enables colored tier labels in the detailed listing.
	Color bool
}

type ConsoleSink struct {
	writer io.Writer
	opts   ConsoleOptions
	mu     sync.Mutex
	tiers  map[risk.Tier]*color.Color
}

// UseColor reports whether w is a terminal and colors were not disabled.
func UseColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func NewConsoleSink(w io.Writer, opts ConsoleOptions) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	s := &ConsoleSink{
		writer: w,
		opts:   opts,
		tiers: map[risk.Tier]*color.Color{
			risk.Safe:          color.New(color.FgGreen),
			risk.PartiallySafe: color.New(color.FgYellow),
			risk.Unsafe:        color.New(color.FgRed, color.Bold),
		},
	}
	for _, c := range s.tiers {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	r, ok := v.(*aggregate.Report)
	if !ok || r == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	printf := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(s.writer, format, args...)
	}

	printf("====== Scan Summary ======\n")
	printf("Safe usages (with commit SHA): %d\n", r.Totals.Safe)
	printf("Partially safe usages (with tag/branch): %d\n", r.Totals.Partial)
	printf("Unsafe usages (no revision): %d\n", r.Totals.Unsafe)
	printf("Safe projects: %d\n", r.ProjectCounts.Safe)
	printf("Partially safe projects: %d\n", r.ProjectCounts.Partial)
	printf("Unsafe projects: %d\n", r.ProjectCounts.Unsafe)
	if !r.Complete {
		printf("(scan incomplete: %d files scanned before it was interrupted)\n", r.FilesScanned)
	}

	if s.opts.Detailed {
		printf("\n====== Project Status ======\n")
		width := 0
		for _, p := range r.Projects {
			width = max(width, len(p.Key.String()))
		}
		for _, p := range r.Projects {
			printf("%-*s  %s\n", width, p.Key.String(), s.tiers[p.Tier].Sprint(p.Tier.String()))
		}
	}
	if err != nil {
		return err
	}
	return flushOutput(s.writer)
}

func (s *ConsoleSink) Close() error {
	return nil
}
