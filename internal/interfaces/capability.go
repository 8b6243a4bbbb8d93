package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// Capability is a pluggable ML model the request pipeline can charge for
// and invoke. The pipeline calls nothing else on the model.
type Capability interface {
	Name() string
	CostPerUse() decimal.Decimal
	IsActive() bool
	Process(ctx context.Context, text string) (string, error)
}

// Payload is the document boundary: how the text got there (PDF parsing,
// OCR) is out of scope for the pipeline.
type Payload interface {
	HasExtractedText() bool
	ExtractedText() string
}
