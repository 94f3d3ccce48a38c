// Package check parses and lints minilang files concurrently.
package check

import (
	"context"
	"log/slog"

	"github.com/woozymasta/lintkit/lint"
	"github.com/woozymasta/lintkit/linting"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/minilang"
	"github.com/woozymasta/minilang/internal/rules"
)

// Options controls a check run.
type Options struct {
	Jobs   int                    // Maximum files processed at once, <= 0 means 1
	Parse  *minilang.ParseOptions // Parser options shared by every file
	Linter *rules.Linter          // Nil runs every rule at its default severity
	Logger *slog.Logger           // Nil disables logging
}

// Result is the outcome for one file.
type Result struct {
	File        string            // Path as given
	Err         error             // Read, lex, parse or lint failure
	Diagnostics []lint.Diagnostic // Lint findings when parsing succeeded
	Fail        bool              // Diagnostics reach the policy fail_on severity
}

// Failed reports whether the file failed to parse or its findings fail the policy.
func (r Result) Failed() bool {
	return r.Err != nil || r.Fail
}

// Files checks every file and returns results in input order.
// Per-file failures are stored in the results; the returned error is
// only set when ctx is canceled or the default linter cannot be built.
func Files(ctx context.Context, files []string, opt Options) ([]Result, error) {
	jobs := opt.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opt.Linter == nil {
		l, err := rules.New(linting.RunPolicyConfig{})
		if err != nil {
			return nil, err
		}
		opt.Linter = l
	}

	results := make([]Result, len(files))
	semaphore := make(chan struct{}, jobs)
	g, gctx := errgroup.WithContext(ctx)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case semaphore <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-semaphore }()

			// Each index is written by exactly one goroutine.
			results[i] = File(gctx, file, opt.Parse, opt.Linter)
			log.Debug("file checked",
				slog.String("file", file),
				slog.Bool("failed", results[i].Failed()),
				slog.Int("diagnostics", len(results[i].Diagnostics)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// File parses and lints a single file.
func File(ctx context.Context, path string, popt *minilang.ParseOptions, l *rules.Linter) Result {
	n, err := minilang.DecodeFile(path, popt)
	if err != nil {
		return Result{File: path, Err: err}
	}

	res, err := l.Run(ctx, path, n)
	if err != nil {
		return Result{File: path, Err: err}
	}
	if len(res.RuleErrors) > 0 {
		err = res.RuleErrors[0]
		return Result{File: path, Err: err, Diagnostics: res.Diagnostics}
	}

	fail, err := l.ShouldFail(res)
	return Result{File: path, Err: err, Diagnostics: res.Diagnostics, Fail: fail}
}
