package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"hfscanner/internal/aggregate"
	"hfscanner/internal/cache"
	"hfscanner/internal/config"
	"hfscanner/internal/output"
	"hfscanner/internal/risk"
	"hfscanner/internal/walker"
)

func exitCodeForRun(fatal, sinkFailed, thresholdMet bool) int {
	// Exit code contract:
	// 0 = scan completed, --fail-on threshold not reached
	// 1 = a project reached the --fail-on tier
	// 2 = scan completed but an export (CSV/JSON/metrics) failed
	// 3 = fatal error (scan did not run or was cut short)
	if fatal {
		return 3
	}
	if sinkFailed {
		return 2
	}
	if thresholdMet {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console first: an export failure must not hide the summary.
	console := output.NewConsoleSink(stdout, output.ConsoleOptions{
		Detailed: cfg.Output.Detailed,
		Color:    output.UseColor(stdout, cfg.Output.NoColor),
	})
	if err := outMgr.AddSink(console); err != nil {
		outMgr.Close()
		return nil, err
	}

	if cfg.Output.CSV != "" {
		cs, err := output.NewCSVSink(cfg.Output.CSV, cfg.Output.CSVLevel)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(cs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Out != "" {
		js, err := output.NewJSONSink(cfg.Output.Out)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(js); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.MetricsTextfile != "" {
		ms, err := output.NewMetricsSink(cfg.Output.MetricsTextfile)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(ms); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

type Engine struct {
	// Stdout receives report output; Stderr receives progress lines.
	// Both default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Cache, if set, lets unchanged files skip the read and classify step.
	Cache *cache.Cache

	// scanFile is a test seam. If nil, Engine reads files from disk.
	scanFile scanFunc
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Engine) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Engine) progressf(cfg *config.Config, format string, args ...any) {
	if cfg.Output.Quiet {
		return
	}
	fmt.Fprintf(e.stderr(), format, args...)
}

func (e *Engine) verbosef(cfg *config.Config, format string, args ...any) {
	if !cfg.Runtime.Verbose {
		return
	}
	fmt.Fprintf(e.stderr(), "[verbose] "+format, args...)
}

func walkerOptions(cfg *config.Config) walker.Options {
	return walker.Options{
		ExcludeDirs:  cfg.Targeting.ExcludeDirs,
		Extensions:   cfg.Targeting.Extensions,
		ExcludeGlobs: cfg.Targeting.Exclude,
	}
}

func (e *Engine) scanFunc(cfg *config.Config) scanFunc {
	if e.scanFile != nil {
		return e.scanFile
	}
	maxSize := cfg.Runtime.MaxFileSize
	return func(path string) (risk.Counts, error) {
		counts, hit, err := scanCached(e.Cache, path, maxSize)
		if hit {
			e.verbosef(cfg, "cache hit: %s\n", path)
		}
		return counts, err
	}
}

// Scan walks cfg.Targeting.Root and aggregates every candidate file.
//
// A nil report means the scan could not start (unreadable root, bad pattern).
// When the scan is cut short by cancellation or --timeout, the partial report
// is returned together with the context error and Report.Complete is false.
func (e *Engine) Scan(ctx context.Context, cfg *config.Config) (*aggregate.Report, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	cancel := context.CancelFunc(func() {})
	if cfg.Runtime.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
	}
	defer cancel()

	root := cfg.Targeting.Root
	agg := aggregate.New(aggregate.Options{
		Depth:     aggregate.Depth(cfg.Targeting.ProjectDepth),
		KeepFiles: cfg.KeepFiles(),
	})
	snapshot := func() *aggregate.Report {
		r := agg.Snapshot()
		r.Root = root
		r.Complete = ctx.Err() == nil
		return r
	}

	e.progressf(cfg, "Discovering files under %s...\n", root)
	opts := walkerOptions(cfg)
	opts.OnSkip = func(path string, err error) {
		e.verbosef(cfg, "skipping %s: %v\n", path, err)
	}
	files, err := walker.Walk(ctx, root, opts)
	if err != nil {
		if ctx.Err() != nil {
			return snapshot(), fmt.Errorf("scan interrupted: %w", ctx.Err())
		}
		return nil, err
	}
	e.progressf(cfg, "Found %d files.\n", len(files))

	scheduler, err := NewScheduler(e.scanFunc(cfg), cfg.Runtime.Concurrency)
	if err != nil {
		return nil, err
	}
	scheduler.onError = func(path string, err error) {
		e.verbosef(cfg, "unreadable %s: %v\n", path, err)
	}

	e.progressf(cfg, "Scanning...\n")
	if err := scheduler.Execute(ctx, root, files, agg); err != nil {
		return snapshot(), fmt.Errorf("scan interrupted: %w", err)
	}
	return snapshot(), nil
}

// emit writes report to every sink and reports whether any of them failed.
func (e *Engine) emit(cfg *config.Config, outMgr *output.Manager, report *aggregate.Report) (sinkFailed bool) {
	if err := outMgr.Write(report); err != nil {
		fmt.Fprintf(e.stderr(), "Error writing output: %v\n", err)
		sinkFailed = true
	}
	for _, p := range outMgr.Written() {
		e.progressf(cfg, "Wrote %s\n", p)
	}
	return sinkFailed
}

func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	outMgr, err := setupOutputManager(cfg, e.stdout())
	if err != nil {
		fmt.Fprintf(e.stderr(), "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	report, scanErr := e.Scan(ctx, cfg)
	if report == nil {
		fmt.Fprintf(e.stderr(), "Error: %v\n", scanErr)
		return exitCodeForRun(true, false, false)
	}

	sinkFailed := e.emit(cfg, outMgr, report)
	if scanErr != nil {
		fmt.Fprintf(e.stderr(), "Error: %v (results are partial)\n", scanErr)
		return exitCodeForRun(true, sinkFailed, false)
	}

	thresholdMet := false
	if tier, ok := cfg.FailOnTier(); ok && len(report.Projects) > 0 && report.Worst() >= tier {
		thresholdMet = true
	}
	return exitCodeForRun(false, sinkFailed, thresholdMet)
}
