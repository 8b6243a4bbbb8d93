package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestCompleted is published once a summarization request reaches a
// terminal status, whatever that status is.
type RequestCompleted struct {
	RequestID  string          `json:"request_id"`
	UserID     string          `json:"user_id"`
	ModelName  string          `json:"model_name"`
	Status     string          `json:"status"`
	Cost       decimal.Decimal `json:"cost"`
	OccurredAt time.Time       `json:"occurred_at"`
}
