package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mailsift/internal/config"
	"github.com/Veraticus/mailsift/internal/engine"
	"github.com/Veraticus/mailsift/internal/llm"
	"github.com/Veraticus/mailsift/internal/model"
	"github.com/Veraticus/mailsift/internal/rules"
)

func sourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Label who each email is from (Level 1)",
		Long: `Run the Level-1 pass over a CSV of emails.

Each pending row gets a suggestion from the pre-rule chain, the suggestion
provider when no rule is conclusive, and the post-rule chain. You accept or
override it and the file is rewritten before the next row is shown.

Examples:
  sift source -i emails.csv                      # label in place, rules only
  sift source -i emails.csv -o level1.csv --provider ollama
  sift source -i emails.csv --taxonomy academic  # academic category set
  sift source -i emails.csv --auto --limit 50    # unattended, 50 rows`,
		RunE: runSource,
	}

	addLabelFlags(cmd)
	cmd.Flags().String("taxonomy", model.TaxonomySource, "category set (source, academic)")
	cmd.Flags().Bool("rules-only", false, "never consult the suggestion provider")

	return cmd
}

func runSource(cmd *cobra.Command, _ []string) error {
	run, err := readLabelRun(cmd, config.PassSource)
	if err != nil {
		return err
	}
	taxonomyName, _ := cmd.Flags().GetString("taxonomy")
	rulesOnly, _ := cmd.Flags().GetBool("rules-only")

	labeler, closeSource, err := newSourceLabeler(taxonomyName, rulesOnly)
	if err != nil {
		return err
	}
	defer closeSource()

	return runLabeling(cmd.Context(), run, labeler)
}

func newSourceLabeler(taxonomyName string, rulesOnly bool) (*engine.SourceLabeler, func(), error) {
	taxonomy, err := model.TaxonomyByName(taxonomyName)
	if err != nil {
		return nil, nil, err
	}
	if taxonomy == model.TopicTaxonomy {
		return nil, nil, fmt.Errorf("taxonomy %q is for the topic pass", taxonomyName)
	}

	policy, err := config.LoadPolicy(taxonomy.Name)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default()
	ruleEngine := rules.New(nil, taxonomy, policy, logger)

	var (
		source  llm.Source = llm.Null{}
		closeFn            = func() {}
	)
	if !rulesOnly {
		source, closeFn, err = createSource(logger)
		if err != nil {
			return nil, nil, err
		}
	}

	return engine.NewSourceLabeler(ruleEngine, source, logger), closeFn, nil
}
