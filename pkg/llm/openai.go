package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/autovista-ai/autovista-backend/pkg/config"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
	"github.com/autovista-ai/autovista-backend/pkg/metrics"
	"github.com/autovista-ai/autovista-backend/pkg/retryx"
)

const defaultTemperature = 0.7

type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Gateway is the production Client backed by the OpenAI API. Calls are
// retried on transient failures and surfaced as LLM_SERVICE_ERROR.
type Gateway struct {
	api     completionAPI
	cfg     config.OpenAIConfig
	policy  retryx.Policy
	metrics *metrics.LLMMetrics
	logg    *logger.Logger
}

// NewGateway builds a Gateway from configuration.
func NewGateway(cfg config.OpenAIConfig, policy retryx.Policy, m *metrics.LLMMetrics, logg *logger.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return &Gateway{
		api:     openai.NewClient(cfg.APIKey),
		cfg:     cfg,
		policy:  policy,
		metrics: m,
		logg:    logg,
	}, nil
}

// ChatCompletion implements Client.
func (g *Gateway) ChatCompletion(ctx context.Context, messages []Message, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.cfg.PrimaryModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.cfg.MaxTokens
	}
	temperature := float32(defaultTemperature)
	if g.cfg.Temperature > 0 {
		temperature = float32(g.cfg.Temperature)
	}
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	operation := opts.Operation
	if operation == "" {
		operation = "chat_completion"
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	promptTokens := 0
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
		promptTokens += g.TokenCount(msg.Content, model)
	}
	g.metrics.AddTokens(operation, promptTokens)

	start := time.Now()
	var content string
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		resp, err := g.api.CreateChatCompletion(ctx, req)
		if err != nil {
			if isTransient(err) {
				return retryx.Retryable(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty completion response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	g.metrics.ObserveDuration(operation, time.Since(start))

	if err != nil {
		g.metrics.IncFailure(operation)
		g.logg.Error(ctx, "model call failed", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeLLM, err, "chat completion failed")
	}
	g.metrics.IncSuccess(operation)
	return content, nil
}

// Embedding implements Client.
func (g *Gateway) Embedding(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(g.cfg.EmbeddingModel),
	}

	start := time.Now()
	var vector []float32
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		resp, err := g.api.CreateEmbeddings(ctx, req)
		if err != nil {
			if isTransient(err) {
				return retryx.Retryable(err)
			}
			return err
		}
		if len(resp.Data) == 0 {
			return errors.New("empty embedding response")
		}
		vector = resp.Data[0].Embedding
		return nil
	})
	g.metrics.ObserveDuration("embedding", time.Since(start))

	if err != nil {
		g.metrics.IncFailure("embedding")
		g.logg.Error(ctx, "embedding call failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "embedding generation failed")
	}
	g.metrics.IncSuccess("embedding")
	return vector, nil
}

// TokenCount implements Client. Falls back to a length/4 estimate when the
// tokenizer has no encoding for the model.
func (g *Gateway) TokenCount(text string, model string) int {
	if model == "" {
		model = g.cfg.PrimaryModel
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// isTransient reports whether the API error is worth another attempt.
// Rate limits, server errors and network timeouts qualify; the rest are
// request problems that will fail identically on retry.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == 0
	}
	msg := err.Error()
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "connection")
}
