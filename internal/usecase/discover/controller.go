package discover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/config"
	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

var (
	ErrInvalidInput              = errors.New("invalid transcript")
	ErrMalformedGenerationOutput = errors.New("malformed generation output")
)

type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	Model               string
	Messages            []Message
	MaxCompletionTokens int
	JSON                bool
}

type Message struct {
	Role string
	Text string
}

// Controller asks the generation backend for the next discovery action.
type Controller struct {
	client Client
	roles  *config.Roles
	cfg    config.Config
	logger *zap.Logger
}

func NewController(client Client, roles *config.Roles, cfg config.Config, logger *zap.Logger) *Controller {
	return &Controller{
		client: client,
		roles:  roles,
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Controller) NextAction(ctx context.Context, transcript domain.Transcript) (domain.Action, error) {
	if err := Validate(transcript); err != nil {
		return nil, err
	}

	content, err := json.Marshal(append(domain.Transcript{}, transcript...))
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}

	if c.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.GenerationTimeout)
		defer cancel()
	}

	resp, err := c.client.Complete(ctx, CompletionRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: RoleSystem, Text: systemPrompt(c.roles.Supported, len(transcript))},
			{Role: RoleUser, Text: string(content)},
		},
		MaxCompletionTokens: c.cfg.MaxCompletionTokens,
		JSON:                true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generation call failed: %w", ErrMalformedGenerationOutput, err)
	}

	action, err := parseAction(resp)
	if err != nil {
		c.logger.Warn("unusable generation reply",
			zap.Int("turns", len(transcript)),
			zap.String("reply", truncate(resp, 512)),
			zap.Error(err))
		return nil, err
	}

	switch a := action.(type) {
	case domain.Ask:
		if transcript.Full() {
			return nil, fmt.Errorf("%w: question asked after %d turns", ErrMalformedGenerationOutput, len(transcript))
		}
	case domain.Recommend:
		if a.Supported() {
			role, ok := c.roles.Canonical(a.RoleTitle)
			if !ok {
				return nil, fmt.Errorf("%w: role %q is not a supported role", ErrMalformedGenerationOutput, a.RoleTitle)
			}
			a.RoleTitle = role
			action = a
		}
	}
	return action, nil
}

// Validate rejects transcripts that are too long or contain blank entries.
func Validate(transcript domain.Transcript) error {
	if len(transcript) > domain.MaxQuestions {
		return fmt.Errorf("%w: %d turns exceeds the limit of %d", ErrInvalidInput, len(transcript), domain.MaxQuestions)
	}
	for i, qa := range transcript {
		if strings.TrimSpace(qa.Question) == "" {
			return fmt.Errorf("%w: question %d is empty", ErrInvalidInput, i+1)
		}
		if strings.TrimSpace(qa.Answer) == "" {
			return fmt.Errorf("%w: answer %d is empty", ErrInvalidInput, i+1)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
