package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jamesainslie/renamer/cmd/renamer/tui"
	"github.com/jamesainslie/renamer/pkg/renamer/cache"
	"github.com/jamesainslie/renamer/pkg/renamer/commit"
	"github.com/jamesainslie/renamer/pkg/renamer/config"
	"github.com/jamesainslie/renamer/pkg/renamer/filter"
	"github.com/jamesainslie/renamer/pkg/renamer/logging"
	"github.com/jamesainslie/renamer/pkg/renamer/manifest"
	"github.com/jamesainslie/renamer/pkg/renamer/metadata"
	"github.com/jamesainslie/renamer/pkg/renamer/output"
	"github.com/jamesainslie/renamer/pkg/renamer/pipeline"
	"github.com/jamesainslie/renamer/pkg/renamer/rule"
	"github.com/jamesainslie/renamer/pkg/renamer/scanner"
	"github.com/jamesainslie/renamer/pkg/renamer/types"
)

var logger = logging.Get("cli")

// ErrRenamesFailed is returned when an applied run could not rename every item.
var ErrRenamesFailed = errors.New("some renames failed")

// progressSink receives run progress. *tui.Reporter satisfies it.
type progressSink interface {
	Scan(types.ScanProgress)
	Step(phase tui.Phase, current, total int)
}

type nopSink struct{}

func (nopSink) Scan(types.ScanProgress)  {}
func (nopSink) Step(tui.Phase, int, int) {}

// renameRequest is one rename run: scan Root, run Rules in order, plan, then
// preview or apply.
type renameRequest struct {
	Root      string
	Rules     []rule.Rule
	RuleDesc  string
	Filter    *filter.Filter
	Recursive bool
	Apply     bool

	// Metadata extracts content metadata; nil skips extraction.
	Metadata *metadata.Chain

	// Cache and Manifest are optional.
	Cache    *cache.Cache
	Manifest *manifest.Manifest
}

// runRename executes the scan, rule, plan and commit stages. A cancelled
// context stops the scan with an error; once items are collected, a
// cancellation before the commit stage turns the run into a preview marked
// as interrupted.
func runRename(ctx context.Context, req renameRequest, sink progressSink) (*output.Result, error) {
	if sink == nil {
		sink = nopSink{}
	}

	scanRes, err := scanner.New(scanner.Options{
		Root:       req.Root,
		Recursive:  req.Recursive,
		Filter:     req.Filter,
		Metadata:   req.Metadata,
		Cache:      req.Cache,
		OnProgress: sink.Scan,
	}).Scan(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("scan finished",
		"root", req.Root,
		"items", len(scanRes.Items),
		"errors", len(scanRes.Errors),
		"elapsed", scanRes.Elapsed)

	runner := pipeline.New()
	step := func(current, total int) {
		sink.Step(tui.PhaseRules, current, total)
	}
	var items []types.Item
	if len(req.Rules) == 1 {
		items = runner.Run(scanRes.Items, req.Rules[0], step)
	} else {
		items = runner.RunAll(scanRes.Items, req.Rules, step)
	}
	pipeStats := runner.Stats()

	plan := commit.Plan(items)

	interrupted := ctx.Err() != nil
	apply := req.Apply && !interrupted

	opts := []commit.Option{
		commit.WithSource(req.RuleDesc),
		commit.WithProgress(func(current, total int) {
			sink.Step(tui.PhaseRename, current, total)
		}),
	}
	if req.Manifest != nil {
		opts = append(opts, commit.WithManifest(req.Manifest))
	}
	if req.Cache != nil {
		opts = append(opts, commit.WithCache(req.Cache))
	}
	commitRes := commit.New(opts...).Apply(plan, !apply)

	res := buildResult(req, scanRes, pipeStats, commitRes, apply)
	res.Interrupted = interrupted
	return res, nil
}

// buildResult converts the stage outcomes into an output.Result. Rows keep
// the pipeline order.
func buildResult(req renameRequest, scanRes *scanner.Result, pipeStats pipeline.Stats, cr commit.Result, applied bool) *output.Result {
	res := &output.Result{
		Source:  req.Root,
		Rule:    req.RuleDesc,
		Rows:    make([]output.Row, 0, len(cr.Ops)),
		Applied: applied,
		Stats: output.Stats{
			Items:        len(cr.Ops),
			Failed:       cr.Failed,
			CacheHits:    scanRes.CacheHits,
			ScanDuration: scanRes.Elapsed,
			RuleDuration: pipeStats.Elapsed,
		},
	}

	if applied {
		res.Stats.Changed = cr.Renamed
	} else {
		res.Stats.Changed = cr.Planned
	}
	if cr.Entry != nil {
		res.ManifestID = cr.Entry.ID
	}

	for _, op := range cr.Ops {
		res.Rows = append(res.Rows, rowFor(op))
	}

	for _, se := range scanRes.Errors {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", se.Path, se.Error))
	}
	if pipeStats.Failed > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("rule %s failed on %d item(s); their names are kept", ruleNames(req.Rules), pipeStats.Failed))
	}

	return res
}

func rowFor(op commit.OpResult) output.Row {
	it := op.Item
	row := output.Row{
		Path:      op.From,
		Original:  it.OriginalFilename(),
		Proposed:  op.ToName(),
		Size:      it.Size,
		SizeHuman: it.HumanSize(),
		IsDir:     !it.IsFile,
		Changed:   op.Action == commit.ActionRename,
		Reason:    op.Reason,
	}

	switch op.Status {
	case commit.StatusSkipped:
		row.Status = output.StatusUnchanged
	case commit.StatusPlanned:
		row.Status = output.StatusRename
	case commit.StatusRenamed:
		row.Status = output.StatusRenamed
	case commit.StatusFailed:
		row.Status = output.StatusFailed
		if op.Action == commit.ActionInvalid {
			row.Status = output.StatusInvalid
			row.Proposed = it.Proposed.Filename()
		}
		if op.Err != nil {
			row.Reason = op.Err.Error()
		}
	}
	return row
}

func ruleNames(rules []rule.Rule) string {
	names := make([]string, len(rules))
	for i, rl := range rules {
		names[i] = rl.Name()
	}
	return strings.Join(names, " + ")
}

// runRuleCommand is the shared RunE body of the rule subcommands and chain.
// desc names the rules in the output and the history.
func runRuleCommand(cmd *cobra.Command, args []string, rules []rule.Rule, desc string, needsMetadata bool) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	expanded, err := config.ExpandPath(root)
	if err != nil {
		return err
	}
	if root, err = filepath.Abs(expanded); err != nil {
		return fmt.Errorf("resolving %s: %w", expanded, err)
	}

	f, err := buildFilter(currentFilterFlags(cfg.Exclude))
	if err != nil {
		return err
	}

	formatter, err := resolveFormatter(cfg.Output, templateStr)
	if err != nil {
		return err
	}

	apply := getApply()
	req := renameRequest{
		Root:      root,
		Rules:     rules,
		RuleDesc:  desc,
		Filter:    f,
		Recursive: cfg.Recursive,
		Apply:     apply,
	}

	if needsMetadata {
		req.Metadata = metadata.Default(metadata.WithOffset(cfg.Datetime.Offset))
	}

	if cfg.Cache.Enabled && !getNoCache() && (needsMetadata || apply) {
		mc, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			// Another run may hold the cache; renaming works without it.
			logger.Warn("metadata cache unavailable", "path", cfg.Cache.Path, "error", err)
		} else {
			defer mc.Close()
			req.Cache = mc
		}
	}

	if apply && cfg.Manifest.Enabled {
		m, err := manifest.New(cfg.Manifest.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize manifest: %w", err)
		}
		req.Manifest = m
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *output.Result
	if useProgressView(cfg.Output) {
		if err := initTUILogging(); err != nil {
			return fmt.Errorf("failed to initialize TUI logging: %w", err)
		}
		err = tui.Run(ctx, tui.Options{Source: root, Rule: req.RuleDesc}, func(ctx context.Context, r *tui.Reporter) error {
			var runErr error
			result, runErr = runRename(ctx, req, r)
			return runErr
		})
		if result != nil && errors.Is(err, tui.ErrInterrupted) {
			result.Interrupted = true
			err = nil
		}
	} else {
		printVerbose("Scanning %s", root)
		result, err = runRename(ctx, req, nopSink{})
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Cancelled, nothing was renamed.")
			return nil
		}
		return err
	}

	if err := writeResult(formatter, result); err != nil {
		return err
	}

	if result.Applied && result.Stats.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRenamesFailed, result.Stats.Failed, result.Stats.Items)
	}
	return nil
}

func writeResult(f output.Formatter, r *output.Result) error {
	var buf bytes.Buffer
	if err := f.Format(&buf, r); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	_, err := os.Stdout.Write(buf.Bytes())
	return err
}

// useProgressView reports whether the interactive progress view should run:
// pretty output, not quiet, and both stdout and stderr on a terminal.
func useProgressView(format string) bool {
	if format != "" && format != "pretty" {
		return false
	}
	if getQuiet() {
		return false
	}
	return isTerminal(os.Stdout) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ruleDescription names the rule and the rule flags that were set, e.g.
// "datetime --source=content_creation --position=end".
func ruleDescription(cmd *cobra.Command) string {
	parts := []string{cmd.Name()}
	cmd.LocalNonPersistentFlags().VisitAll(func(fl *pflag.Flag) {
		if fl.Changed {
			parts = append(parts, fmt.Sprintf("--%s=%s", fl.Name, fl.Value.String()))
		}
	})
	return strings.Join(parts, " ")
}
