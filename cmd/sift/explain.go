package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mailsift/internal/classification"
	"github.com/Veraticus/mailsift/internal/cli"
	"github.com/Veraticus/mailsift/internal/config"
	"github.com/Veraticus/mailsift/internal/engine"
	"github.com/Veraticus/mailsift/internal/mailtext"
	"github.com/Veraticus/mailsift/internal/model"
)

func explainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show how a single email would be labeled",
		Long: `Run the suggestion pipeline on one email without touching any file and
print the full reasoning trail.

Examples:
  sift explain --sender "Placement Cell <tpo@uni.edu>" --text "Campus drive on Monday"
  sift explain --pass topic --source-label Administrative --text "Fee deadline extended"
  sift explain --rules --taxonomy academic`,
		RunE: runExplain,
	}

	cmd.Flags().String("pass", config.PassSource, "pipeline to run (source, topic)")
	cmd.Flags().String("sender", "", "sender field of the email")
	cmd.Flags().String("text", "", "body text of the email")
	cmd.Flags().String("source-label", "", "Level-1 label (topic pass)")
	cmd.Flags().String("taxonomy", model.TaxonomySource, "category set for the source pass")
	cmd.Flags().String("mode", string(engine.TopicModeScore), "topic selection (score, markers)")
	cmd.Flags().Bool("rules-only", false, "never consult the suggestion provider")
	cmd.Flags().Bool("rules", false, "list the pre-rule chain instead")
	cmd.Flags().Bool("groups", false, "list the pattern groups instead")

	return cmd
}

func runExplain(cmd *cobra.Command, _ []string) error {
	pass, _ := cmd.Flags().GetString("pass")
	taxonomyName, _ := cmd.Flags().GetString("taxonomy")
	rulesOnly, _ := cmd.Flags().GetBool("rules-only")
	listRules, _ := cmd.Flags().GetBool("rules")
	out := cmd.OutOrStdout()

	if listRules {
		return printRules(cmd, taxonomyName)
	}
	if listGroups, _ := cmd.Flags().GetBool("groups"); listGroups {
		return printGroups(cmd)
	}

	var (
		suggester   engine.Suggester
		closeSource func()
		err         error
	)
	switch pass {
	case config.PassSource:
		suggester, closeSource, err = newSourceLabeler(taxonomyName, rulesOnly)
	case config.PassTopic:
		mode, _ := cmd.Flags().GetString("mode")
		suggester, closeSource, err = newTopicLabeler(mode)
	default:
		return fmt.Errorf("unknown pass %q (known: source, topic)", pass)
	}
	if err != nil {
		return err
	}
	defer closeSource()

	sender, _ := cmd.Flags().GetString("sender")
	text, _ := cmd.Flags().GetString("text")
	sourceLabel, _ := cmd.Flags().GetString("source-label")
	if strings.TrimSpace(sender) == "" && strings.TrimSpace(text) == "" {
		return fmt.Errorf("nothing to explain: pass --sender and/or --text")
	}

	rec := model.LabeledRecord{
		Sender:      sender,
		RawText:     text,
		CleanText:   mailtext.Clean(text),
		SourceLabel: sourceLabel,
	}
	suggestion := suggester.Suggest(cmd.Context(), rec)

	pending := model.Pending{
		Taxonomy:   suggester.Taxonomy(),
		Suggestion: suggestion,
		Record:     rec,
		Position:   1,
		Remaining:  1,
	}
	preview := config.LoadReviewOptions(pass).PreviewChars
	if _, err := fmt.Fprintln(out, cli.RenderBox("Explain", cli.FormatPending(pending, preview))); err != nil {
		return err
	}

	lib := classification.Default()
	matched := lib.MatchingGroups(rec.CleanText)
	if len(matched) == 0 {
		_, err = fmt.Fprintln(out, cli.FormatInfo("No pattern group matches the text"))
		return err
	}
	if _, err := fmt.Fprintln(out, cli.BoldStyle.Render("Matching pattern groups:")); err != nil {
		return err
	}
	for _, group := range matched {
		pattern, _ := lib.FirstMatch(rec.CleanText, group)
		if _, err := fmt.Fprintf(out, "  %-16s %s\n", group, cli.SubtleStyle.Render(pattern)); err != nil {
			return err
		}
	}
	return nil
}

func printGroups(cmd *cobra.Command) error {
	lib := classification.Default()
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Pattern groups (%d patterns)", lib.PatternCount()))); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tPATTERNS")
	for _, group := range lib.Groups() {
		fmt.Fprintf(w, "%s\t%s\n", group, strings.Join(lib.Patterns(group), "  "))
	}
	return w.Flush()
}

func printRules(cmd *cobra.Command, taxonomyName string) error {
	labeler, closeSource, err := newSourceLabeler(taxonomyName, true)
	if err != nil {
		return err
	}
	defer closeSource()

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.FormatTitle("Pre-rule chain ("+taxonomyName+")")); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRULE\tCATEGORY\tCONFIDENCE")
	for _, line := range labeler.Rules().Describe() {
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}
