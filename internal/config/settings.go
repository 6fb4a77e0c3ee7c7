package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/mailsift/internal/common"
	"github.com/Veraticus/mailsift/internal/llm"
	"github.com/Veraticus/mailsift/internal/model"
	"github.com/Veraticus/mailsift/internal/rules"
	"github.com/Veraticus/mailsift/internal/storage"
	"github.com/Veraticus/mailsift/internal/topic"
)

// Pass names select column layouts.
const (
	PassSource = "source"
	PassTopic  = "topic"
)

// LoadLLMConfig loads suggestion source settings. It follows this precedence:
// 1. Viper configuration (from config file, SIFT_ env vars or flags)
// 2. Direct environment variables (OPENAI_API_KEY, OPENAI_BASE_URL, OLLAMA_HOST)
// 3. Default values
func LoadLLMConfig() (llm.Config, error) {
	cfg := llm.Config{
		Provider:        strings.ToLower(viper.GetString("llm.provider")),
		Model:           viper.GetString("llm.model"),
		BaseURL:         viper.GetString("llm.base_url"),
		APIKey:          viper.GetString("llm.api_key"),
		CLIPath:         ExpandPath(viper.GetString("llm.cli_path")),
		Timeout:         viper.GetDuration("llm.timeout"),
		CacheTTL:        viper.GetDuration("llm.cache_ttl"),
		RateLimit:       viper.GetFloat64("llm.rate_limit"),
		Temperature:     viper.GetFloat64("llm.temperature"),
		MaxTokens:       viper.GetInt("llm.max_tokens"),
		BreakerFailures: viper.GetUint32("llm.breaker_failures"),
		BreakerCooldown: viper.GetDuration("llm.breaker_cooldown"),
	}

	if cfg.Provider == "" {
		cfg.Provider = llm.ProviderNone
	}
	if !slices.Contains(llm.Providers(), cfg.Provider) && cfg.Provider != "rules" {
		return cfg, fmt.Errorf("%w: llm.provider %q (want one of %s)",
			common.ErrInvalidConfig, cfg.Provider, strings.Join(llm.Providers(), ", "))
	}

	switch cfg.Provider {
	case llm.ProviderOpenAI:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = os.Getenv("OPENAI_BASE_URL")
		}
	case llm.ProviderOllama:
		if cfg.BaseURL == "" {
			if host := os.Getenv("OLLAMA_HOST"); host != "" {
				if !strings.Contains(host, "://") {
					host = "http://" + host
				}
				cfg.BaseURL = host
			}
		}
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = llm.DefaultTimeout
	}
	if cfg.Timeout < 0 || cfg.RateLimit < 0 || cfg.CacheTTL < 0 {
		return cfg, fmt.Errorf("%w: llm timeout, cache_ttl and rate_limit must not be negative", common.ErrInvalidConfig)
	}

	return cfg, nil
}

// LoadPolicy returns the rule policy for a taxonomy. Each key set under
// "rules" replaces the built-in value for that key.
func LoadPolicy(taxonomy string) (rules.Policy, error) {
	policy := rules.PolicyFor(taxonomy)
	if !viper.IsSet("rules") {
		return policy, nil
	}

	var override rules.Policy
	if err := viper.UnmarshalKey("rules", &override); err != nil {
		return policy, fmt.Errorf("%w: rules: %w", common.ErrInvalidConfig, err)
	}

	lists := []struct {
		dst *[]string
		key string
		src []string
	}{
		{&policy.AdDomains, "ad_domains", override.AdDomains},
		{&policy.PersonalDomains, "personal_domains", override.PersonalDomains},
		{&policy.TrustedProviders, "trusted_providers", override.TrustedProviders},
		{&policy.TrustedRoots, "trusted_roots", override.TrustedRoots},
		{&policy.StaffDomains, "staff_domains", override.StaffDomains},
		{&policy.StudentDomains, "student_domains", override.StudentDomains},
		{&policy.ClassroomKeys, "classroom_keys", override.ClassroomKeys},
	}
	for _, l := range lists {
		if viper.IsSet("rules." + l.key) {
			*l.dst = l.src
		}
	}
	if viper.IsSet("rules.event_beats_newsletter") {
		policy.EventBeatsNewsletter = override.EventBeatsNewsletter
	}
	if viper.IsSet("rules.external_placement_is_catch_all") {
		policy.ExternalPlacementIsCatchAll = override.ExternalPlacementIsCatchAll
	}
	return policy, nil
}

// LoadBias returns the topic bias table. Rows under "topic.bias" replace the
// built-in row for the same source label; topic names match
// case-insensitively since configuration keys are lowercased on load.
func LoadBias() (topic.BiasTable, error) {
	bias := topic.DefaultBias()
	if !viper.IsSet("topic.bias") {
		return bias, nil
	}

	var raw map[string]map[string]float64
	if err := viper.UnmarshalKey("topic.bias", &raw); err != nil {
		return nil, fmt.Errorf("%w: topic.bias: %w", common.ErrInvalidConfig, err)
	}

	for source, row := range raw {
		for existing := range bias {
			if strings.EqualFold(existing, source) {
				delete(bias, existing)
			}
		}
		converted := make(map[model.Category]float64, len(row))
		for name, v := range row {
			cat, ok := model.TopicTaxonomy.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: topic.bias.%s: unknown topic %q", common.ErrInvalidConfig, source, name)
			}
			converted[cat] = v
		}
		bias[source] = converted
	}
	return bias, nil
}

// LoadComposer builds the topic composer with the configured bias table.
func LoadComposer() (*topic.Composer, error) {
	bias, err := LoadBias()
	if err != nil {
		return nil, err
	}
	return topic.NewComposer(model.TopicTaxonomy, topic.DefaultKeywords(), bias)
}

// LoadColumns returns the column layout for a pass with "columns" overrides
// applied.
func LoadColumns(pass string) (storage.Columns, error) {
	var cols storage.Columns
	switch pass {
	case PassSource:
		cols = storage.SourceColumns()
	case PassTopic:
		cols = storage.TopicColumns()
	default:
		return cols, fmt.Errorf("%w: unknown pass %q", common.ErrInvalidConfig, pass)
	}

	if v := viper.GetString("columns.sender"); v != "" {
		cols.Sender = v
	}
	if v := viper.GetString("columns.text"); v != "" {
		cols.Text = v
	}
	if v := viper.GetString("columns.source_label"); v != "" {
		if pass == PassSource {
			cols.Label = v
		} else {
			cols.Source = v
		}
	}
	if v := viper.GetString("columns.topic_label"); v != "" && pass == PassTopic {
		cols.Label = v
	}
	return cols, nil
}

// RequiredColumns lists the columns a pass cannot run without.
func RequiredColumns(pass string, cols storage.Columns) []string {
	if pass == PassTopic {
		return []string{cols.Text, cols.Source}
	}
	return []string{cols.Sender, cols.Text}
}

// ReviewOptions are the interactive display settings.
type ReviewOptions struct {
	PreviewChars int
	Progress     bool
}

// LoadReviewOptions reads "review" settings. The topic pass previews more
// text by default.
func LoadReviewOptions(pass string) ReviewOptions {
	opts := ReviewOptions{PreviewChars: 300, Progress: true}
	if pass == PassTopic {
		opts.PreviewChars = 500
	}
	if viper.IsSet("review.preview_chars") {
		opts.PreviewChars = viper.GetInt("review.preview_chars")
	}
	if viper.IsSet("review.progress") {
		opts.Progress = viper.GetBool("review.progress")
	}
	return opts
}
