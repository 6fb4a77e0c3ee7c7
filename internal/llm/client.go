package llm

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/mailsift/internal/model"
)

// ErrUnavailable is returned when a source cannot produce an answer: it
// timed out, failed, or its circuit is open.
var ErrUnavailable = errors.New("suggestion source unavailable")

// Source proposes a label for one email as free text.
type Source interface {
	Propose(ctx context.Context, req model.SuggestionRequest) (string, error)
	Name() string
}

// Config holds the settings for building a source.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	CLIPath     string
	Timeout     time.Duration
	CacheTTL    time.Duration
	RateLimit   float64 // calls per second, 0 for unlimited
	Temperature float64
	MaxTokens   int
	// BreakerFailures is the number of consecutive failures that opens
	// the circuit.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Provider names.
const (
	ProviderNone      = "none"
	ProviderOllama    = "ollama"
	ProviderOllamaCLI = "ollama-cli"
	ProviderOpenAI    = "openai"
)

// Null is the rule-only source. It is never consulted.
type Null struct{}

// Propose returns an empty answer.
func (Null) Propose(context.Context, model.SuggestionRequest) (string, error) {
	return "", nil
}

// Name returns "none".
func (Null) Name() string {
	return ProviderNone
}

// Enabled reports whether src is a real source worth calling.
func Enabled(src Source) bool {
	if src == nil {
		return false
	}
	_, isNull := src.(Null)
	return !isNull
}
