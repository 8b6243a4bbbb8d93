package summarizer

import (
	"context"
	"strings"
)

// ExtractiveStages is the rule-based summarization strategy: the summary is
// the first two sentences of the cleaned text. No external calls, no state.
type ExtractiveStages struct {
	maxInputLength int // token budget for the preprocessed input
}

// NewExtractiveStages builds the extractive strategy with the given token
// limit. A non-positive limit disables truncation.
func NewExtractiveStages(maxInputLength int) *ExtractiveStages {
	return &ExtractiveStages{maxInputLength: maxInputLength}
}

// Preprocess trims whitespace, tokenizes on whitespace and truncates the
// token list to the configured limit, recording the original length.
func (e *ExtractiveStages) Preprocess(ctx context.Context, text string) (Preprocessed, error) {
	tokens := strings.Fields(text)
	if e.maxInputLength > 0 && len(tokens) > e.maxInputLength {
		tokens = tokens[:e.maxInputLength]
	}
	return Preprocessed{
		CleanedText:    strings.TrimSpace(text),
		OriginalLength: len(text),
		Tokens:         tokens,
	}, nil
}

// Predict splits the cleaned text on sentence terminators and keeps the
// first two sentences when more than two exist; shorter inputs pass
// through unchanged.
func (e *ExtractiveStages) Predict(ctx context.Context, data Preprocessed) (Prediction, error) {
	text := data.CleanedText
	summary := text

	sentences := strings.Split(text, ".")
	if len(sentences) > 2 {
		summary = strings.Join(sentences[:2], ".") + "."
	}

	return Prediction{
		OriginalLength: len(text),
		SummaryLength:  len(summary),
		SummaryText:    summary,
	}, nil
}

// Postprocess extracts the summary string from the prediction.
func (e *ExtractiveStages) Postprocess(ctx context.Context, prediction Prediction) (string, error) {
	return prediction.SummaryText, nil
}

var _ Stages = (*ExtractiveStages)(nil)
