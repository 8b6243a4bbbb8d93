package interfaces

import (
	"context"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerStore persists account balances and the append-only transaction
// log. Implementations must be safe for concurrent use; atomicity of
// check-then-write sequences is the ledger service's job, not the store's.
type LedgerStore interface {
	// CreateAccount fails if the user already has an account.
	CreateAccount(ctx context.Context, userID string, balance decimal.Decimal) error
	AccountExists(userID string) (bool, error)
	// GetBalance returns zero for unknown users without creating anything.
	GetBalance(userID string) (decimal.Decimal, error)
	// ApplyTransaction writes the new balance and appends the transaction
	// record as one atomic unit.
	ApplyTransaction(ctx context.Context, tx models.Transaction, newBalance decimal.Decimal) error
	GetTransactions() ([]models.Transaction, error)
	GetTransactionsByUser(userID string) ([]models.Transaction, error)
}
