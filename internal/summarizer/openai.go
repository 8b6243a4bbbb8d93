package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	temperature         = 0.2
	maxCompletionTokens = 300

	systemPrompt = `Summarize the document below in two or three sentences,
	covering only the main findings and conclusions.
	Keep critical context (dates, numbers, names).
	Stay neutral and objective, and answer
	in the same language as the input.`
)

// OpenAIConfig contains configuration for the OpenAI-backed strategy.
type OpenAIConfig struct {
	APIKey         string
	MaxInputLength int
}

// OpenAIStages delegates the predict stage to OpenAI's Chat Completions
// API. It plugs into the same pipeline contract as the extractive strategy.
type OpenAIStages struct {
	client         openai.Client
	maxInputLength int
}

// NewOpenAIStages builds the OpenAI-backed strategy.
func NewOpenAIStages(cfg OpenAIConfig) (*OpenAIStages, error) {
	return &OpenAIStages{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
		),
		maxInputLength: cfg.MaxInputLength,
	}, nil
}

// Preprocess trims and truncates the input to the token budget so prompts
// stay within the completion model's context.
func (s *OpenAIStages) Preprocess(ctx context.Context, text string) (Preprocessed, error) {
	cleaned := strings.TrimSpace(text)
	tokens := strings.Fields(cleaned)
	if s.maxInputLength > 0 && len(tokens) > s.maxInputLength {
		tokens = tokens[:s.maxInputLength]
		cleaned = strings.Join(tokens, " ")
	}
	return Preprocessed{
		CleanedText:    cleaned,
		OriginalLength: len(text),
		Tokens:         tokens,
	}, nil
}

// Predict sends the cleaned text to the chat completions endpoint.
func (s *OpenAIStages) Predict(ctx context.Context, data Preprocessed) (Prediction, error) {
	if data.CleanedText == "" {
		return Prediction{}, fmt.Errorf("input is required")
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(data.CleanedText),
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModelGPT4_1Mini,
		Messages:            messages,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxCompletionTokens),
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Prediction{}, fmt.Errorf("chat completion choices are missing")
	}

	summary := resp.Choices[0].Message.Content
	return Prediction{
		OriginalLength: len(data.CleanedText),
		SummaryLength:  len(summary),
		SummaryText:    summary,
	}, nil
}

// Postprocess trims the completion and rejects empty responses.
func (s *OpenAIStages) Postprocess(ctx context.Context, prediction Prediction) (string, error) {
	summary := strings.TrimSpace(prediction.SummaryText)
	if summary == "" {
		return "", fmt.Errorf("chat completion choice message content is missing")
	}
	return summary, nil
}

var _ Stages = (*OpenAIStages)(nil)
