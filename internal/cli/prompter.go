package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/mailsift/internal/engine"
	"github.com/Veraticus/mailsift/internal/mailtext"
	"github.com/Veraticus/mailsift/internal/model"
)

// PrompterOptions tunes the interactive display.
type PrompterOptions struct {
	// PreviewChars caps the body preview. Zero means the default.
	PreviewChars int
	// ShowProgress draws a progress bar over the pending rows.
	ShowProgress bool
}

// Prompter implements the interactive reviewer for labeling sessions.
type Prompter struct {
	writer      io.Writer
	reader      *NonBlockingReader
	progressBar *progressbar.ProgressBar
	opts        PrompterOptions
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
func NewCLIPrompter(reader io.Reader, writer io.Writer, opts PrompterOptions) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = mailtext.DefaultPreviewChars
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
		opts:   opts,
	}
}

// Begin announces the session and starts the progress bar.
func (p *Prompter) Begin(total, pending int) {
	msg := fmt.Sprintf("%d rows, %d waiting for a label", total, pending)
	if _, err := fmt.Fprintln(p.writer, FormatInfo(msg)); err != nil {
		slog.Warn("Failed to write session header", "error", err)
	}
	if p.opts.ShowProgress && pending > 0 {
		p.initProgressBar(pending)
	}
}

// rowTitle numbers data rows from 1, like the category list.
func rowTitle(pending model.Pending) string {
	return fmt.Sprintf("Row %d  (%d left)", pending.Record.Index+1, pending.Remaining)
}

// Review shows one suggestion and reads the reviewer's answer.
func (p *Prompter) Review(ctx context.Context, pending model.Pending) (model.Decision, error) {
	select {
	case <-ctx.Done():
		return model.Decision{}, ctx.Err()
	default:
	}

	title := rowTitle(pending)
	if _, err := fmt.Fprintln(p.writer, RenderBox(title, FormatPending(pending, p.opts.PreviewChars))); err != nil {
		return model.Decision{}, fmt.Errorf("failed to write row box: %w", err)
	}
	if _, err := fmt.Fprint(p.writer, FormatCategoryList(pending.Taxonomy, pending.Suggestion.Category)); err != nil {
		return model.Decision{}, fmt.Errorf("failed to write category list: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render(helpLine(pending))); err != nil {
		return model.Decision{}, fmt.Errorf("failed to write help line: %w", err)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Label")); err != nil {
		return model.Decision{}, fmt.Errorf("failed to write prompt: %w", err)
	}

	input, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Closed stdin ends the session like an explicit quit.
			return model.Decision{Action: model.ActionQuit}, nil
		}
		return model.Decision{}, err
	}

	decision := ParseResponse(input, pending)
	if decision.Warning != "" {
		if _, err := fmt.Fprintln(p.writer, FormatWarning(decision.Warning)); err != nil {
			slog.Warn("Failed to write input warning", "error", err)
		}
	}
	p.echo(decision, pending)
	if decision.Action != model.ActionQuit {
		p.updateProgress()
	}
	return decision, nil
}

// Finish prints the completion summary.
func (p *Prompter) Finish(stats model.ReviewStats) {
	if p.progressBar != nil {
		if err := p.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	status := "Labeling Complete"
	if stats.Quit || stats.Remaining() > 0 {
		status = "Labeling Paused"
	}

	summary := fmt.Sprintf("%s Statistics:\n", ChartIcon) +
		fmt.Sprintf("  • Rows: %d\n", stats.Total) +
		fmt.Sprintf("  • Labeled: %d\n", stats.Labeled) +
		fmt.Sprintf("  • Remaining: %d\n", stats.Remaining()) +
		fmt.Sprintf("  • Reviewed this session: %d (accepted %d, overridden %d, skipped %d)\n",
			stats.Visited, stats.Accepted, stats.Overridden, stats.Skipped) +
		fmt.Sprintf("  • Model consulted: %d %s\n", stats.Consulted, RobotIcon) +
		fmt.Sprintf("  • Time taken: %s\n", stats.Duration.Round(time.Second)) +
		fmt.Sprintf("  • Run: %s", stats.RunID)

	if _, err := fmt.Fprintln(p.writer, RenderBox(status, summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

// ParseResponse interprets one line of reviewer input. Anything it cannot
// interpret accepts the suggestion with a warning.
func ParseResponse(input string, pending model.Pending) model.Decision {
	accept := model.Decision{Action: model.ActionAccept}
	trimmed := strings.TrimSpace(input)
	t := pending.Taxonomy

	switch strings.ToLower(trimmed) {
	case "", "y", "a":
		return accept
	case "s":
		return model.Decision{Action: model.ActionSkip}
	case "q":
		return model.Decision{Action: model.ActionQuit}
	case "l":
		mc := pending.Suggestion.ModelCategory
		if mc != "" && t.Contains(mc) {
			return model.Decision{Action: model.ActionOverride, Category: mc}
		}
		accept.Warning = "no model answer for this row, keeping suggestion"
		return accept
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		if cat, ok := t.At(n); ok {
			return model.Decision{Action: model.ActionOverride, Category: cat}
		}
		accept.Warning = fmt.Sprintf("no category numbered %d, keeping suggestion", n)
		return accept
	}

	if cat, ok := t.Lookup(trimmed); ok {
		return model.Decision{Action: model.ActionOverride, Category: cat}
	}

	accept.Warning = fmt.Sprintf("unrecognized input %q, keeping suggestion", trimmed)
	return accept
}

func helpLine(pending model.Pending) string {
	parts := []string{
		"[Enter/y/a] accept",
		fmt.Sprintf("[1-%d or name] override", pending.Taxonomy.Len()),
	}
	if pending.Suggestion.ModelCategory != "" {
		parts = append(parts, "[l] model answer")
	}
	parts = append(parts, "[s] skip", "[q] quit")
	return strings.Join(parts, "  ")
}

func (p *Prompter) echo(d model.Decision, pending model.Pending) {
	var msg string
	switch d.Action {
	case model.ActionSkip:
		msg = SubtleStyle.Render("skipped")
	case model.ActionQuit:
		msg = FormatInfo("Quitting; progress is saved.")
	case model.ActionOverride:
		msg = FormatSuccess(string(d.Category))
	default:
		msg = FormatSuccess(string(pending.Suggestion.Category))
	}
	if _, err := fmt.Fprintln(p.writer, msg); err != nil {
		slog.Warn("Failed to write decision", "error", err)
	}
}

// FormatPending renders a row with its preview and the reasoning trail that
// produced its suggestion.
func FormatPending(pending model.Pending, previewChars int) string {
	rec := pending.Record
	s := pending.Suggestion

	var b strings.Builder
	sender := rec.Sender
	if sender == "" {
		sender = "(no sender)"
	}
	fmt.Fprintf(&b, "%s From: %s\n", MailIcon, sender)
	if rec.SourceLabel != "" {
		fmt.Fprintf(&b, "   Source: %s\n", rec.SourceLabel)
	}
	fmt.Fprintf(&b, "\n%s\n", mailtext.Preview(rec.CleanText, previewChars))

	b.WriteString("\n" + RuleIcon + " Trail:\n")
	if s.Verdict.Reason != "" {
		pre := string(s.Verdict.Reason)
		if s.Verdict.Decided() {
			conf := "low"
			if s.Verdict.HighConfidence {
				conf = "high"
			}
			pre = fmt.Sprintf("%s → %s (%s)", pre, s.Verdict.Category, conf)
		}
		fmt.Fprintf(&b, "  pre-rule: %s\n", pre)
	}
	if s.Consulted {
		switch {
		case s.ModelError != "":
			fmt.Fprintf(&b, "  model: %s\n", ErrorStyle.Render("unavailable: "+s.ModelError))
		default:
			fmt.Fprintf(&b, "  model: %q → %s\n", strings.TrimSpace(s.ModelRaw), s.ModelCategory)
		}
	}
	if s.ModelReason != "" {
		fmt.Fprintf(&b, "  reason: %s\n", s.ModelReason)
	}
	if s.PostReason != "" {
		fmt.Fprintf(&b, "  post-rule: %s\n", s.PostReason)
	}
	for _, sc := range s.Scores {
		fmt.Fprintf(&b, "  score: %s = %.1f", sc.Category, sc.Score)
		if len(sc.Keywords) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(sc.Keywords, ", "))
		}
		if sc.Bias != 0 {
			fmt.Fprintf(&b, " (bias %.1f)", sc.Bias)
		}
		b.WriteString("\n")
	}
	if len(s.Markers) > 0 {
		keys := make([]string, 0, len(s.Markers))
		for k := range s.Markers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := s.Markers[k]; v != "" {
				fmt.Fprintf(&b, "  marker: %s = %s\n", k, v)
			}
		}
	}

	fmt.Fprintf(&b, "\n%s Suggested: %s", RobotIcon, SuccessStyle.Render(string(s.Category)))
	return b.String()
}

func (p *Prompter) initProgressBar(pending int) {
	p.progressBar = progressbar.NewOptions(pending,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reviewing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (p *Prompter) updateProgress() {
	if p.progressBar != nil {
		if err := p.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

// Ensure Prompter implements the engine.Prompter interface.
var _ engine.Prompter = (*Prompter)(nil)
