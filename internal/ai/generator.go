package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	openai "github.com/sashabaranov/go-openai"

	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/utils"
)

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("ai generator not configured: missing API key")

const (
	DefaultModel       = openai.GPT4oMini
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

// Generator is the hosted-model collaborator. It produces layout schemas,
// suggestions and enhanced prompts through the OpenAI chat API.
type Generator struct {
	client      *openai.Client
	enabled     bool
	model       string
	temperature float32
	maxTokens   int
	retryDelay  time.Duration
	sanitizer   *bluemonday.Policy

	mu    sync.Mutex
	cache map[string]schema.LayoutSchema
}

type settings struct {
	config      openai.ClientConfig
	model       string
	temperature float32
	maxTokens   int
	retryDelay  time.Duration
}

// Option configures a Generator.
type Option func(*settings)

func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(s *settings) {
		if url != "" {
			s.config.BaseURL = url
		}
	}
}

func WithTemperature(t float32) Option {
	return func(s *settings) { s.temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithRetryDelay sets the pause before the single retry of a transient failure.
func WithRetryDelay(d time.Duration) Option {
	return func(s *settings) { s.retryDelay = d }
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.config.HTTPClient = c }
}

// NewGenerator builds the collaborator. With an empty apiKey the generator
// is disabled and every layout call fails with ErrNotConfigured.
func NewGenerator(apiKey string, opts ...Option) *Generator {
	s := settings{
		config:      openai.DefaultConfig(apiKey),
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		retryDelay:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Generator{
		client:      openai.NewClientWithConfig(s.config),
		enabled:     apiKey != "",
		model:       s.model,
		temperature: s.temperature,
		maxTokens:   s.maxTokens,
		retryDelay:  s.retryDelay,
		sanitizer:   bluemonday.StrictPolicy(),
		cache:       make(map[string]schema.LayoutSchema),
	}
}

// Enabled reports whether an API key is configured.
func (g *Generator) Enabled() bool { return g.enabled }

// ClearCache drops every cached layout.
func (g *Generator) ClearCache() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = make(map[string]schema.LayoutSchema)
}

func (g *Generator) cacheKey(prompt string) string {
	return fmt.Sprintf("%s-%g", prompt, g.temperature)
}

func (g *Generator) cached(prompt string) (schema.LayoutSchema, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.cache[g.cacheKey(prompt)]
	if !ok {
		return schema.LayoutSchema{}, false
	}
	return s.Clone(), true
}

func (g *Generator) store(prompt string, s schema.LayoutSchema) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache[g.cacheKey(prompt)] = s.Clone()
}

// complete sends one chat completion, retrying once after retryDelay when
// the failure looks transient.
func (g *Generator) complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil && utils.ShouldRetry(err) {
		log.Printf("OpenAI call failed, retrying once after %s... Error: %v", g.retryDelay, err)
		select {
		case <-time.After(g.retryDelay):
			resp, err = g.client.CreateChatCompletion(ctx, req)
		case <-ctx.Done():
			return "", fmt.Errorf("openai retry abandoned: %w", ctx.Err())
		}
	}
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("OpenAI usage for failed request: %+v", resp.Usage)
		return "", errors.New("openai returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
