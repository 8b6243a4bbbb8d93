// Package summarizer implements the pluggable summarization capability:
// a Model wraps named, priced configuration around a three-stage
// preprocess/predict/postprocess pipeline. New summarization strategies
// implement Stages; the request pipeline only sees interfaces.Capability.
package summarizer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/shopspring/decimal"
)

var (
	// ErrModelInactive is returned by Process on a deactivated model,
	// before any pipeline stage runs.
	ErrModelInactive = errors.New("model is inactive")
	// ErrNegativeCost rejects model construction with a negative price.
	ErrNegativeCost = errors.New("cost per use must not be negative")
)

// Preprocessed is the output of the first pipeline stage.
type Preprocessed struct {
	CleanedText    string
	OriginalLength int
	Tokens         []string
}

// Prediction is the output of the second pipeline stage.
type Prediction struct {
	OriginalLength int
	SummaryLength  int
	SummaryText    string
}

// Stages is the three-stage summarization contract. Implementations must
// be stateless across calls: concurrent Process calls with different
// inputs share no mutable scratch state.
type Stages interface {
	Preprocess(ctx context.Context, text string) (Preprocessed, error)
	Predict(ctx context.Context, data Preprocessed) (Prediction, error)
	Postprocess(ctx context.Context, prediction Prediction) (string, error)
}

// Model composes Stages with the configuration the billing pipeline needs:
// a name, a version, a cost per use, and an operator-togglable active flag.
type Model struct {
	name    string
	version string
	cost    decimal.Decimal
	active  atomic.Bool
	stages  Stages
}

// NewModel builds an active model. A negative cost is a programmer error
// and faults immediately; zero cost is allowed (free tier).
func NewModel(name, version string, costPerUse decimal.Decimal, stages Stages) (*Model, error) {
	if costPerUse.IsNegative() {
		return nil, ErrNegativeCost
	}
	m := &Model{
		name:    name,
		version: version,
		cost:    costPerUse,
		stages:  stages,
	}
	m.active.Store(true)
	return m, nil
}

func (m *Model) Name() string                { return m.name }
func (m *Model) Version() string             { return m.version }
func (m *Model) CostPerUse() decimal.Decimal { return m.cost }
func (m *Model) IsActive() bool              { return m.active.Load() }

// SetActive toggles the model; the new state takes effect on the next
// Process call, including calls racing with the toggle.
func (m *Model) SetActive(active bool) { m.active.Store(active) }

// Process runs preprocess, predict and postprocess in order. A deactivated
// model fails up front rather than silently no-opping.
func (m *Model) Process(ctx context.Context, text string) (string, error) {
	if !m.active.Load() {
		return "", ErrModelInactive
	}

	data, err := m.stages.Preprocess(ctx, text)
	if err != nil {
		return "", err
	}

	prediction, err := m.stages.Predict(ctx, data)
	if err != nil {
		return "", err
	}

	return m.stages.Postprocess(ctx, prediction)
}

var _ interfaces.Capability = (*Model)(nil)
