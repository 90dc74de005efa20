// Package processor contains the task-processor implementations invoked by
// the dispatcher with an already-validated request. Every failure leaves
// this package as a classified error.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "nextgen-api/internal/common/errors"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/models"
)

// Config holds the settings for the OpenAI-backed processor.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI runs extraction tasks against an OpenAI-compatible chat API.
type OpenAI struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOpenAI builds the processor. BaseURL is optional and allows pointing
// at any OpenAI-compatible endpoint.
func NewOpenAI(cfg Config, log logger.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		log:    log.WithFields(map[string]interface{}{"processor": "openai", "model": model}),
	}
}

const systemPrompt = `You are a clinical document analyst. Extract the five Ws ` +
	`(who, what, when, where, why) from the document you are given. Respond with ` +
	`a single JSON object with keys "who", "what", "when", "where", "why", each ` +
	`an array of short strings. Do not include any other text.`

// Process sends the document to the chat API and parses the five-part
// extraction from the reply.
func (p *OpenAI) Process(ctx context.Context, req *models.TaskRequest) (*models.FiveWs, error) {
	p.log.Debug("invoking chat completion", map[string]interface{}{
		"taskName": string(req.Instructions.TaskName),
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.NewProviderFailure(errors.New("provider returned no choices"))
	}

	var result models.FiveWs
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "` \n")
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, apperrors.NewProviderFailure(fmt.Errorf("unparseable provider reply: %w", err))
	}
	return &result, nil
}

func buildPrompt(req *models.TaskRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\nDocument type: %s\n", req.Instructions.TaskName, req.Document.DocumentType)
	if req.Instructions.ReadingLevel != "" {
		fmt.Fprintf(&sb, "Reading level: %s\n", req.Instructions.ReadingLevel)
	}
	if len(req.Sources.Guidelines) > 0 {
		fmt.Fprintf(&sb, "Guidelines:\n- %s\n", strings.Join(req.Sources.Guidelines, "\n- "))
	}
	if len(req.Sources.Glossary) > 0 {
		fmt.Fprintf(&sb, "Glossary:\n- %s\n", strings.Join(req.Sources.Glossary, "\n- "))
	}
	fmt.Fprintf(&sb, "\nDocument:\n%s\n", req.Document.Content)
	return sb.String()
}

// classifyAPIError maps a go-openai failure onto the error taxonomy:
// deadline → DOWNSTREAM_TIMEOUT, transport failure → DOWNSTREAM_UNAVAILABLE,
// an answered-but-failed API call → PROVIDER_FAILURE.
func classifyAPIError(err error) *apperrors.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDownstreamTimeout(err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return apperrors.NewDownstreamTimeout(err)
		}
		return apperrors.NewDownstreamUnavailable(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewProviderFailure(err)
	}

	return apperrors.NewDownstreamUnavailable(err)
}
