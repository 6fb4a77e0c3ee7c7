package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/mailsift/internal/cli"
	"github.com/Veraticus/mailsift/internal/common"
	"github.com/Veraticus/mailsift/internal/config"
	"github.com/Veraticus/mailsift/internal/engine"
	"github.com/Veraticus/mailsift/internal/storage"
)

// labelRun is everything a labeling pass needs besides its suggester.
type labelRun struct {
	stdin      io.Reader
	stdout     io.Writer
	pass       string
	input      string
	output     string
	resumeHint string
	limit      int
	auto       bool
	restart    bool
	withNote   bool
}

func addLabelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "input CSV file (required)")
	cmd.Flags().StringP("output", "o", "", "output CSV file (default: label the input in place)")
	cmd.Flags().Bool("auto", false, "accept every suggestion without prompting")
	cmd.Flags().Int("limit", 0, "review at most this many rows (0 = all)")
	cmd.Flags().Bool("restart", false, "start over from --input even if --output already holds labels")
	_ = cmd.MarkFlagRequired("input")
}

func readLabelRun(cmd *cobra.Command, pass string) (labelRun, error) {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	auto, _ := cmd.Flags().GetBool("auto")
	limit, _ := cmd.Flags().GetInt("limit")
	restart, _ := cmd.Flags().GetBool("restart")
	if limit < 0 {
		return labelRun{}, fmt.Errorf("--limit must not be negative")
	}

	run := labelRun{
		stdin:   cmd.InOrStdin(),
		stdout:  cmd.OutOrStdout(),
		pass:    pass,
		input:   config.ExpandPath(input),
		output:  config.ExpandPath(output),
		limit:   limit,
		auto:    auto,
		restart: restart,
	}
	run.resumeHint = fmt.Sprintf("sift %s --input %s", pass, input)
	if output != "" {
		run.resumeHint = fmt.Sprintf("sift %s --input %s --output %s", pass, input, output)
	}
	return run, nil
}

// runLabeling opens the store, runs the review loop and finalizes the output.
func runLabeling(ctx context.Context, run labelRun, suggester engine.Suggester) error {
	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID, "pass", run.pass)

	cols, err := config.LoadColumns(run.pass)
	if err != nil {
		return err
	}

	store, err := storage.Open(storage.Options{
		Input:    run.input,
		Output:   run.output,
		Columns:  cols,
		Required: config.RequiredColumns(run.pass, cols),
		RunID:    runID,
		WithNote: run.withNote,
		Restart:  run.restart,
		Logger:   logger,
	})
	if errors.Is(err, common.ErrMissingColumn) {
		return common.NewUserError(fmt.Sprintf("%s cannot be labeled: %v", run.input, err), err)
	}
	if err != nil {
		return fmt.Errorf("failed to open label store: %w", err)
	}

	if store.Resumed() {
		msg := fmt.Sprintf("Resuming from %s (use --restart to start over from %s)", store.OutputPath(), run.input)
		if _, err := fmt.Fprintln(run.stdout, cli.FormatInfo(msg)); err != nil {
			logger.Warn("Failed to write resume notice", "error", err)
		}
	}

	var prompter engine.Prompter
	if run.auto {
		prompter = engine.NewAutoPrompter(logger)
	} else {
		if run.stdin == os.Stdin && !stdinIsTerminal() {
			logger.Warn("stdin is not a terminal, reading answers from it")
		}
		opts := config.LoadReviewOptions(run.pass)
		prompter = cli.NewCLIPrompter(run.stdin, run.stdout, cli.PrompterOptions{
			PreviewChars: opts.PreviewChars,
			ShowProgress: opts.Progress,
		})
	}

	interrupts := cli.NewInterruptHandler(run.stdout, run.resumeHint)
	ctx, stop := interrupts.HandleInterrupts(ctx)
	defer stop()

	eng := engine.New(store, suggester, prompter, engine.Config{
		Logger: logger,
		RunID:  runID,
		Limit:  run.limit,
	})

	stats, runErr := eng.Run(ctx)
	if finishErr := store.Finish(); finishErr != nil {
		return errors.Join(runErr, fmt.Errorf("failed to save labels: %w", finishErr))
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			logger.Warn("Labeling interrupted", "labeled", stats.Labeled, "remaining", stats.Remaining())
			return nil
		}
		return fmt.Errorf("labeling failed: %w", runErr)
	}

	msg := fmt.Sprintf("%d of %d rows labeled in %s", stats.Labeled, stats.Total, store.OutputPath())
	if _, err := fmt.Fprintln(run.stdout, cli.FormatSuccess(msg)); err != nil {
		logger.Warn("Failed to write summary", "error", err)
	}
	if stats.Remaining() > 0 {
		if _, err := fmt.Fprintln(run.stdout, cli.FormatInfo("Resume with: "+run.resumeHint)); err != nil {
			logger.Warn("Failed to write resume hint", "error", err)
		}
	}
	return nil
}

// stdinIsTerminal reports whether interactive review is possible.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
