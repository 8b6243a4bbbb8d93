package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/ledger"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models/events"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/summarizer"
)

// EventTopic is the broker topic terminal request outcomes are published to.
const EventTopic = "request_completed"

// Processor drives the charge → process → refund-on-failure protocol
// between the ledger and the capability. Expected business failures
// (insufficient funds, missing content, inactive model, processing faults)
// end up in the request's terminal status, not in the returned error.
type Processor struct {
	ledger    *ledger.Ledger
	publisher interfaces.EventPublisher
	log       *slog.Logger
}

func NewProcessor(l *ledger.Ledger, publisher interfaces.EventPublisher, log *slog.Logger) *Processor {
	return &Processor{
		ledger:    l,
		publisher: publisher,
		log:       log,
	}
}

// Process runs one request to a terminal status. The returned error is
// non-nil only for infrastructure faults (store failures) or misuse
// (reprocessing a finished request); callers inspect req.Status() for the
// business outcome.
//
// Money movement is always reconciled before the status is finalized: a
// failure after the withdrawal refunds the exact snapshotted cost.
func (p *Processor) Process(ctx context.Context, req *Request) error {
	if err := req.claim(); err != nil {
		return err
	}

	ok, err := p.ledger.HasSufficientBalance(req.UserID(), req.Cost())
	if err != nil {
		req.finalize(StatusError, "", "balance check failed")
		p.publish(req)
		return err
	}
	if !ok {
		req.finalize(StatusInsufficientFunds, "", "insufficient funds")
		p.publish(req)
		return nil
	}

	withdrawn, err := p.ledger.Withdraw(ctx, req.UserID(), req.Cost(),
		"Payment for summarization request "+req.ID())
	if err != nil {
		req.finalize(StatusError, "", "withdrawal failed")
		p.publish(req)
		return err
	}
	if !withdrawn {
		// Sufficiency held a moment ago but a concurrent request won the
		// race. Nothing was taken, so there is nothing to refund.
		req.finalize(StatusError, "", "withdrawal failed: insufficient funds")
		p.publish(req)
		return nil
	}

	req.markProcessing()

	payload := req.payload
	if !payload.HasExtractedText() {
		p.refund(ctx, req, "no extracted content")
		req.finalize(StatusError, "", "no extracted content")
		p.publish(req)
		return nil
	}

	summary, err := req.model.Process(ctx, payload.ExtractedText())
	if err != nil {
		cause := "processing error"
		if errors.Is(err, summarizer.ErrModelInactive) {
			cause = "model inactive"
		}
		p.refund(ctx, req, cause)
		req.finalize(StatusError, "", cause)
		p.publish(req)
		return nil
	}

	req.finalize(StatusSuccess, summary, "")
	p.publish(req)
	return nil
}

// refund returns the exact amount withdrawn for this request. The refund
// uses a background-derived context so an externally cancelled request
// still reconciles the ledger.
func (p *Processor) refund(ctx context.Context, req *Request, cause string) {
	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := p.ledger.Deposit(refundCtx, req.UserID(), req.Cost(),
		"Refund ("+cause+") for summarization request "+req.ID())
	if err != nil {
		p.log.Error("Failed to refund request",
			"error", err,
			"requestID", req.ID(),
			"userID", req.UserID(),
			"cost", req.Cost())
	}
}

func (p *Processor) publish(req *Request) {
	if p.publisher == nil {
		return
	}

	event := events.RequestCompleted{
		RequestID:  req.ID(),
		UserID:     req.UserID(),
		ModelName:  req.ModelName(),
		Status:     string(req.Status()),
		Cost:       req.Cost(),
		OccurredAt: time.Now(),
	}
	if err := p.publisher.Publish(EventTopic, event); err != nil {
		p.log.Error("Failed to publish request event",
			"error", err,
			"requestID", req.ID(),
			"status", event.Status)
	}
}
