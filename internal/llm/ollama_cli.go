package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Veraticus/mailsift/internal/model"
)

// ollamaCLIClient runs `ollama run <model>` with the prompt on stdin.
type ollamaCLIClient struct {
	cliPath string
	model   string
}

func newOllamaCLIClient(cfg Config) (Source, error) {
	cliPath := cfg.CLIPath
	if cliPath == "" {
		cliPath = "ollama"
	}

	if _, err := exec.LookPath(cliPath); err != nil {
		return nil, fmt.Errorf("ollama CLI not found at %s: %w", cliPath, err)
	}

	model := cfg.Model
	if model == "" {
		model = "mistral"
	}

	return &ollamaCLIClient{cliPath: cliPath, model: model}, nil
}

func (c *ollamaCLIClient) Name() string {
	return ProviderOllamaCLI
}

// Propose runs the model once and returns its trimmed stdout.
func (c *ollamaCLIClient) Propose(ctx context.Context, req model.SuggestionRequest) (string, error) {
	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(cmdCtx, c.cliPath, "run", c.model)
	cmd.Stdin = strings.NewReader(BuildPrompt(req))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() != nil {
			return "", fmt.Errorf("ollama run: %w", cmdCtx.Err())
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("ollama run failed: %s", strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to execute ollama: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
