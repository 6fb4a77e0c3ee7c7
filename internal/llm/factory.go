package llm

import (
	"fmt"
	"log/slog"
	"strings"
)

// NewSource builds the configured source. Anything but the null source is
// returned wrapped in Guarded.
func NewSource(cfg Config, logger *slog.Logger) (Source, error) {
	var (
		inner Source
		err   error
	)

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderNone, "rules":
		return Null{}, nil
	case ProviderOllama:
		inner, err = newOllamaClient(cfg)
	case ProviderOllamaCLI:
		inner, err = newOllamaCLIClient(cfg)
	case ProviderOpenAI:
		inner, err = newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported suggestion provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewGuarded(inner, cfg, logger), nil
}

// Providers lists the accepted provider names.
func Providers() []string {
	return []string{ProviderNone, ProviderOllama, ProviderOllamaCLI, ProviderOpenAI}
}
