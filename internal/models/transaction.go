package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tags the direction of a balance mutation.
// The amount on a Transaction is always positive; the type carries the sign.
type TransactionType string

const (
	TransactionDeposit      TransactionType = "deposit"
	TransactionWithdrawal   TransactionType = "withdrawal"
	TransactionAdminDeposit TransactionType = "admin_deposit"
)

// Signed returns the amount with the sign implied by the transaction type:
// negative for withdrawals, positive otherwise.
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionWithdrawal {
		return amount.Neg()
	}
	return amount
}

// Transaction is an immutable audit record of a single balance mutation.
// The ledger creates exactly one per successful deposit or withdrawal;
// transactions are never updated or deleted.
type Transaction struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal // always positive, direction comes from Type
	Type        TransactionType
	Description string
	CreatedAt   time.Time
}

// NewTransaction builds a transaction record with a fresh id and timestamp.
func NewTransaction(userID string, amount decimal.Decimal, txType TransactionType, description string) Transaction {
	return Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// TransactionView is the read-only reporting projection of a Transaction.
type TransactionView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"transaction_type"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t Transaction) View() TransactionView {
	return TransactionView{
		ID:          t.ID,
		UserID:      t.UserID,
		Amount:      t.Amount,
		Type:        t.Type,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
