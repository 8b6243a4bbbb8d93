package history_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/history"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/ledger"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/request"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/storage/memory"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/summarizer"
)

func newCapability(t *testing.T, cost int64) interfaces.Capability {
	t.Helper()

	model, err := summarizer.NewModel("extractive-summarizer", "1.0",
		decimal.NewFromInt(cost), summarizer.NewExtractiveStages(4096))
	require.NoError(t, err)
	return model
}

// processed runs one request to a terminal state and returns it.
func processed(t *testing.T, l *ledger.Ledger, userID, text string, capability interfaces.Capability) *request.Request {
	t.Helper()

	doc := models.NewPDFDocument("doc.pdf", "", int64(len(text)))
	doc.SetExtractedText(text)

	req, err := request.New(userID, doc, capability)
	require.NoError(t, err)

	processor := request.NewProcessor(l, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, processor.Process(context.Background(), req))
	return req
}

func TestRecentReturnsChronologicalOrder(t *testing.T) {
	l := ledger.NewLedger(memory.NewMemoryLedgerStore())
	require.NoError(t, l.CreateAccount(context.Background(), "alice", decimal.NewFromInt(100)))
	capability := newCapability(t, 10)

	h := history.New()
	first := processed(t, l, "alice", "First text.", capability)
	second := processed(t, l, "alice", "Second text.", capability)
	third := processed(t, l, "alice", "Third text.", capability)
	h.Add(first)
	h.Add(second)
	h.Add(third)

	all := h.Recent("alice", 0)
	require.Len(t, all, 3)
	assert.Same(t, first, all[0])
	assert.Same(t, second, all[1])
	assert.Same(t, third, all[2])

	recent := h.Recent("alice", 2)
	require.Len(t, recent, 2)
	assert.Same(t, second, recent[0])
	assert.Same(t, third, recent[1])
}

func TestRecentUnknownUserIsEmpty(t *testing.T) {
	h := history.New()
	assert.Empty(t, h.Recent("nobody", 0))
}

func TestRecentIsPerUser(t *testing.T) {
	l := ledger.NewLedger(memory.NewMemoryLedgerStore())
	require.NoError(t, l.CreateAccount(context.Background(), "alice", decimal.NewFromInt(100)))
	require.NoError(t, l.CreateAccount(context.Background(), "bob", decimal.NewFromInt(100)))
	capability := newCapability(t, 10)

	h := history.New()
	h.Add(processed(t, l, "alice", "Alice text.", capability))
	h.Add(processed(t, l, "bob", "Bob text.", capability))

	assert.Len(t, h.Recent("alice", 0), 1)
	assert.Len(t, h.Recent("bob", 0), 1)
}

func TestSuccessfulFiltersTerminalState(t *testing.T) {
	l := ledger.NewLedger(memory.NewMemoryLedgerStore())
	require.NoError(t, l.CreateAccount(context.Background(), "alice", decimal.NewFromInt(15)))
	capability := newCapability(t, 10)

	h := history.New()
	// Enough balance for one request only: the second lands in
	// insufficient_funds.
	succeeded := processed(t, l, "alice", "Good text.", capability)
	failed := processed(t, l, "alice", "More text.", capability)
	h.Add(succeeded)
	h.Add(failed)

	require.Equal(t, request.StatusSuccess, succeeded.Status())
	require.Equal(t, request.StatusInsufficientFunds, failed.Status())

	successful := h.Successful("alice")
	require.Len(t, successful, 1)
	assert.Same(t, succeeded, successful[0])
}
