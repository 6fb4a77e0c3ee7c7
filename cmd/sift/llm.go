package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/mailsift/internal/config"
	"github.com/Veraticus/mailsift/internal/llm"
)

// createSource builds the suggestion source from configuration. This
// function is shared by every command that can consult a model.
func createSource(logger *slog.Logger) (llm.Source, func(), error) {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, nil, err
	}

	source, err := llm.NewSource(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create suggestion source: %w", err)
	}

	if llm.Enabled(source) {
		logger.Info("Using suggestion source",
			"provider", cfg.Provider,
			"model", cfg.Model,
			"timeout", cfg.Timeout)
	} else {
		logger.Info("No suggestion source configured, running rules only")
	}

	closeFn := func() {
		if c, ok := source.(io.Closer); ok {
			if closeErr := c.Close(); closeErr != nil {
				logger.Warn("Failed to close suggestion source", "error", closeErr)
			}
		}
	}
	return source, closeFn, nil
}
