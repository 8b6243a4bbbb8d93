package request

import (
	"errors"
	"sync"
	"time"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the request state machine. Pending moves to Processing once
// funds are reserved; Success, Error and InsufficientFunds are terminal.
type Status string

const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusSuccess           Status = "success"
	StatusError             Status = "error"
	StatusInsufficientFunds Status = "insufficient_funds"
)

// Terminal reports whether no further transition can occur.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError || s == StatusInsufficientFunds
}

var (
	// ErrAlreadyFinalized is returned when processing is attempted on a
	// request that already ran: a terminal request must never be
	// re-charged or re-processed.
	ErrAlreadyFinalized = errors.New("request already reached a terminal status")
	// ErrNegativeCost rejects construction against a mispriced model.
	ErrNegativeCost = errors.New("request cost must not be negative")
)

// Request is one charge-and-process attempt tying a user, a payload and a
// capability together through a terminal outcome. The cost is a snapshot
// taken at construction: repricing the model later must not affect an
// in-flight or completed request.
type Request struct {
	id        string
	createdAt time.Time
	userID    string
	payload   interfaces.Payload
	model     interfaces.Capability
	cost      decimal.Decimal

	mu          sync.Mutex
	claimed     bool
	status      Status
	result      string
	failure     string
	completedAt *time.Time
}

// New builds a pending request, snapshotting the model's current price.
func New(userID string, payload interfaces.Payload, model interfaces.Capability) (*Request, error) {
	cost := model.CostPerUse()
	if cost.IsNegative() {
		return nil, ErrNegativeCost
	}
	return &Request{
		id:        uuid.New().String(),
		createdAt: time.Now(),
		userID:    userID,
		payload:   payload,
		model:     model,
		cost:      cost,
		status:    StatusPending,
	}, nil
}

func (r *Request) ID() string            { return r.id }
func (r *Request) UserID() string        { return r.userID }
func (r *Request) CreatedAt() time.Time  { return r.createdAt }
func (r *Request) Cost() decimal.Decimal { return r.cost }
func (r *Request) ModelName() string     { return r.model.Name() }

func (r *Request) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Result is the summary text; empty unless the status is Success.
func (r *Request) Result() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// FailureReason describes why a request ended in Error or
// InsufficientFunds; empty on success.
func (r *Request) FailureReason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failure
}

func (r *Request) CompletedAt() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.completedAt == nil {
		return nil
	}
	t := *r.completedAt
	return &t
}

// claim reserves the request for exactly one processing attempt. Any later
// attempt fails loudly instead of touching the ledger again.
func (r *Request) claim() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.claimed || r.status != StatusPending {
		return ErrAlreadyFinalized
	}
	r.claimed = true
	return nil
}

func (r *Request) markProcessing() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusProcessing
}

func (r *Request) finalize(status Status, result, failure string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status = status
	r.result = result
	r.failure = failure
	now := time.Now()
	r.completedAt = &now
}

// RequestView is the read-only reporting projection of a Request.
type RequestView struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	ModelName     string          `json:"model_name"`
	Status        Status          `json:"status"`
	Cost          decimal.Decimal `json:"cost"`
	Result        string          `json:"result,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func (r *Request) View() RequestView {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := RequestView{
		ID:            r.id,
		UserID:        r.userID,
		ModelName:     r.model.Name(),
		Status:        r.status,
		Cost:          r.cost,
		Result:        r.result,
		FailureReason: r.failure,
		CreatedAt:     r.createdAt,
	}
	if r.completedAt != nil {
		t := *r.completedAt
		view.CompletedAt = &t
	}
	return view
}
