// Package narrator implements narration.Narrator over the Anthropic Messages API.
package narrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/game/narration"
)

// systemPrompt constrains the model to flavor that never contradicts the facts.
const systemPrompt = `You narrate one turn of a fantasy adventure in second person.
You receive a JSON object with the narration mode and the mechanical facts of the turn.
Write at most three sentences of flavor. Never invent numbers, items, damage, or
outcomes that the facts do not state, and never contradict them.`

// MessageSender is the subset of the Anthropic client the narrator calls.
type MessageSender interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Narrator asks a language model for flavor prose.
type Narrator struct {
	sender    MessageSender
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Narrator backed by the Anthropic API.
//
// Precondition: cfg.APIKey must be non-empty; logger must be non-nil.
func New(cfg config.NarratorConfig, logger *zap.Logger) *Narrator {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return NewWithSender(&client.Messages, cfg, logger)
}

// NewWithSender creates a Narrator over an arbitrary MessageSender.
func NewWithSender(sender MessageSender, cfg config.NarratorConfig, logger *zap.Logger) *Narrator {
	return &Narrator{
		sender:    sender,
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// FromConfig returns the narrator selected by cfg: the Anthropic narrator when
// enabled, narration.Silent otherwise.
func FromConfig(cfg config.NarratorConfig, logger *zap.Logger) narration.Narrator {
	if !cfg.Enabled {
		return narration.Silent
	}
	return New(cfg, logger)
}

// Narrate implements narration.Narrator.
//
// Postcondition: returns the concatenated text blocks of the reply, trimmed;
// an error when the request fails or times out.
func (n *Narrator) Narrate(ctx context.Context, req narration.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding narration request: %w", err)
	}
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := n.sender.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: n.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(body))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrating %s: %w", req.Mode, err)
	}
	if msg == nil {
		return "", errors.New("narrator: empty response")
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			parts = append(parts, strings.TrimSpace(block.Text))
		}
	}
	n.logger.Debug("narration",
		zap.String("mode", string(req.Mode)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("blocks", len(parts)),
	)
	return strings.Join(parts, " "), nil
}
