package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/internal/watch"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/reporter"
	"github.com/yaklabco/hl7lint/pkg/runner"
)

type watchFlags struct {
	debounce   time.Duration
	ruleFormat string
	noContext  bool
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-lint messages whenever they change",
		Long: `Watch message files and directories and lint each file again when it is
saved. Only the segments touched by a change are parsed again.

Examples:
  hl7lint watch                   # Watch the current directory
  hl7lint watch inbound/ adt.hl7`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before a changed file is linted")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide message context in output")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("rule-format") {
		cliCfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	logger := logging.Default()

	w, err := watch.New(watch.Options{
		Config:   cfg,
		Debounce: flags.debounce,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := w.Add(args...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  cfg.RuleFormat,
		WorkingDir:  workDir,
	})

	report := func(ev watch.Event) {
		if ev.Removed {
			logger.Info("removed", logging.FieldPath, ev.Path)

			return
		}

		if ev.Snapshot != nil {
			logger.Debug("reparsed",
				logging.FieldPath, ev.Path,
				logging.FieldReused, ev.Stats.Reused,
				logging.FieldReparsed, ev.Stats.Rebuilt,
				logging.FieldFull, ev.Stats.Full,
			)
		}

		if _, err := rep.Report(ctx, eventResult(ev)); err != nil {
			logger.Error("report failed", logging.FieldError, err)
		}
	}

	for _, file := range files {
		report(w.Refresh(ctx, file))
	}

	logger.Info("watching", logging.FieldPaths, args, logging.FieldFiles, len(files))

	if err := w.Run(ctx, report); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

// eventResult wraps one watch event as a single-file run for the reporter.
func eventResult(ev watch.Event) *runner.Result {
	result := &runner.Result{}

	if ev.Err != nil {
		result.Add(runner.FileOutcome{Path: ev.Path, Error: ev.Err})

		return result
	}

	result.Add(runner.FileOutcome{
		Path:   ev.Path,
		Result: &lint.PipelineResult{FileResult: ev.Result, Path: ev.Path},
	})

	return result
}
