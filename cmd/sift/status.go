package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/mailsift/internal/cli"
	"github.com/Veraticus/mailsift/internal/config"
	"github.com/Veraticus/mailsift/internal/storage"
)

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show labeling progress for a CSV file",
		Long: `Count labeled and pending rows in a working file and break the labeled
rows down by category.

Examples:
  sift status -i level1.csv
  sift status -i level2.csv --pass topic`,
		RunE: runStatus,
	}

	cmd.Flags().StringP("input", "i", "", "CSV file to inspect (required)")
	cmd.Flags().String("pass", config.PassSource, "which label column to count (source, topic)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	pass, _ := cmd.Flags().GetString("pass")

	cols, err := config.LoadColumns(pass)
	if err != nil {
		return err
	}
	table, err := storage.LoadTable(config.ExpandPath(input), cols)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	counts := table.Counts()
	out := cmd.OutOrStdout()

	if _, err := fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s (%s pass)", input, pass))); err != nil {
		return err
	}
	summary := fmt.Sprintf("%d rows, %d labeled, %d remaining", counts.Total, counts.Labeled, counts.Remaining())
	if counts.Remaining() == 0 && counts.Total > 0 {
		summary = cli.FormatSuccess(summary)
	} else {
		summary = cli.FormatInfo(summary)
	}
	if _, err := fmt.Fprintln(out, summary); err != nil {
		return err
	}
	if counts.Labeled == 0 {
		return nil
	}

	labels := make([]string, 0, len(counts.ByLabel))
	for label := range counts.ByLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts.ByLabel[labels[i]] != counts.ByLabel[labels[j]] {
			return counts.ByLabel[labels[i]] > counts.ByLabel[labels[j]]
		}
		return labels[i] < labels[j]
	})

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("Label"),
		headerStyle.Render("Rows"),
		headerStyle.Render("Share"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 30),
		strings.Repeat("-", 4),
		strings.Repeat("-", 5))
	for _, label := range labels {
		n := counts.ByLabel[label]
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", label, n, 100*float64(n)/float64(counts.Labeled))
	}
	return w.Flush()
}
