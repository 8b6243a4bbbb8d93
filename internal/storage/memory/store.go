package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

var errDuplicateAccount = errors.New("account already exists in store")

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// State lives for the lifetime of the process; all methods are safe for
// concurrent use.
type MemoryLedgerStore struct {
	mu           sync.Mutex
	balances     map[string]decimal.Decimal
	transactions []models.Transaction // append-only, insertion order = chronological order
}

// NewMemoryLedgerStore creates an empty in-memory store.
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		balances:     make(map[string]decimal.Decimal),
		transactions: make([]models.Transaction, 0),
	}
}

func (m *MemoryLedgerStore) CreateAccount(ctx context.Context, userID string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.balances[userID]; exists {
		return errDuplicateAccount
	}
	m.balances[userID] = balance
	return nil
}

func (m *MemoryLedgerStore) AccountExists(userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.balances[userID]
	return exists, nil
}

// GetBalance returns zero for unknown users without creating an account.
func (m *MemoryLedgerStore) GetBalance(userID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, exists := m.balances[userID]
	if !exists {
		return decimal.Zero, nil
	}
	return balance, nil
}

// ApplyTransaction writes the new balance and appends the transaction
// record under one lock so no partial state is observable.
func (m *MemoryLedgerStore) ApplyTransaction(ctx context.Context, tx models.Transaction, newBalance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[tx.UserID] = newBalance
	m.transactions = append(m.transactions, tx)
	return nil
}

// GetTransactions returns a copy of the full log so external code can't
// modify internal state.
func (m *MemoryLedgerStore) GetTransactions() ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Transaction, len(m.transactions))
	copy(copied, m.transactions)
	return copied, nil
}

func (m *MemoryLedgerStore) GetTransactionsByUser(userID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// Compile-time check: MemoryLedgerStore implements LedgerStore.
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
