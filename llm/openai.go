package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const DefaultPersona = "You are an expert Settlers of Catan player. Reply only with the JSON object you are asked for."

type OpenAIConfig struct {
	Model   string
	APIKey  string
	BaseURL string // empty for api.openai.com; any OpenAI-compatible endpoint otherwise
	Persona string
}

// OpenAI queries a chat-completion endpoint with a system persona and one user message.
type OpenAI struct {
	client  *openai.Client
	model   string
	persona string
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: missing API key")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm: missing model name")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	persona := cfg.Persona
	if persona == "" {
		persona = DefaultPersona
	}

	log.Info().Msgf("initializing OpenAI-compatible client for model %s", cfg.Model)
	return &OpenAI{
		client:  openai.NewClientWithConfig(config),
		model:   cfg.Model,
		persona: persona,
	}, nil
}

func (o *OpenAI) Model() string {
	return o.model
}

func (o *OpenAI) Query(ctx context.Context, prompt string, temperature float64, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// A zero temperature is dropped by omitempty and the provider default applies.
	t := float32(temperature)
	if t <= 0 {
		t = math.SmallestNonzeroFloat32
	}
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.persona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: t,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion with %s failed: %w", o.model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	log.Debug().Msgf("%s finished with reason %s", o.model, resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
