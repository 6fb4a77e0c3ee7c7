package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mailsift/internal/config"
	"github.com/Veraticus/mailsift/internal/engine"
)

func topicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Label what each email is about (Level 2)",
		Long: `Run the Level-2 pass over the output of the source pass.

In score mode each topic is scored by keyword hits plus a bias for the row's
source label; a configured provider is asked only when no topic scores. In
markers mode the provider extracts obligation markers (required action,
deadline, exam relevance, ...) and a fixed precedence picks the topic.

A <output>_README.txt note with progress counts is kept next to the output.

Examples:
  sift topic -i level1.csv -o level2.csv
  sift topic -i level1.csv -o level2.csv --mode markers --provider ollama`,
		RunE: runTopic,
	}

	addLabelFlags(cmd)
	cmd.Flags().String("mode", string(engine.TopicModeScore), "topic selection (score, markers)")

	return cmd
}

func runTopic(cmd *cobra.Command, _ []string) error {
	run, err := readLabelRun(cmd, config.PassTopic)
	if err != nil {
		return err
	}
	run.withNote = true

	modeName, _ := cmd.Flags().GetString("mode")
	labeler, closeSource, err := newTopicLabeler(modeName)
	if err != nil {
		return err
	}
	defer closeSource()

	return runLabeling(cmd.Context(), run, labeler)
}

func newTopicLabeler(modeName string) (*engine.TopicLabeler, func(), error) {
	mode, err := engine.ParseTopicMode(modeName)
	if err != nil {
		return nil, nil, err
	}

	composer, err := config.LoadComposer()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default()
	source, closeFn, err := createSource(logger)
	if err != nil {
		return nil, nil, err
	}

	labeler, err := engine.NewTopicLabeler(composer, source, mode, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return labeler, closeFn, nil
}
