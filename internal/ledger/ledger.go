package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount rejects non-positive amounts before any mutation.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrDuplicateAccount is returned when creating an account that exists.
	ErrDuplicateAccount = errors.New("account already exists")
)

// Ledger owns all user balances and the transaction audit log. It serializes
// balance mutations per account so a sufficiency check and the withdrawal it
// guards are atomic with respect to other callers.
type Ledger struct {
	store interfaces.LedgerStore
	muMap map[string]*sync.Mutex // one mutex per account
	mapMu sync.Mutex             // protects muMap itself
}

// NewLedger creates a ledger over any LedgerStore implementation
// (in-memory, postgres, ...).
func NewLedger(store interfaces.LedgerStore) *Ledger {
	return &Ledger{
		store: store,
		muMap: make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) getAccountLock(userID string) *sync.Mutex {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[userID]; !exists {
		l.muMap[userID] = &sync.Mutex{}
	}
	return l.muMap[userID]
}

// CreateAccount provisions an account with the given starting balance.
// Returns ErrDuplicateAccount if the user already has one.
func (l *Ledger) CreateAccount(ctx context.Context, userID string, initialBalance decimal.Decimal) error {
	if initialBalance.IsNegative() {
		return ErrInvalidAmount
	}

	mu := l.getAccountLock(userID)
	mu.Lock()
	defer mu.Unlock()

	exists, err := l.store.AccountExists(userID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateAccount
	}
	return l.store.CreateAccount(ctx, userID, initialBalance)
}

// GetBalance reports zero for unknown users; queries never provision
// accounts.
func (l *Ledger) GetBalance(userID string) (decimal.Decimal, error) {
	return l.store.GetBalance(userID)
}

// HasSufficientBalance is a pure predicate: balance(userID) >= amount.
func (l *Ledger) HasSufficientBalance(userID string, amount decimal.Decimal) (bool, error) {
	balance, err := l.store.GetBalance(userID)
	if err != nil {
		return false, err
	}
	return balance.Cmp(amount) >= 0, nil
}

// Deposit credits the account and appends one deposit transaction. A user
// with no account gets one provisioned at zero balance first; withdrawals
// do not share this leniency.
func (l *Ledger) Deposit(ctx context.Context, userID string, amount decimal.Decimal, description string) error {
	return l.deposit(ctx, userID, amount, models.TransactionDeposit, description)
}

// AdminDeposit is an operator top-up; identical to Deposit aside from the
// transaction kind recorded in the audit log.
func (l *Ledger) AdminDeposit(ctx context.Context, userID string, amount decimal.Decimal, description string) error {
	return l.deposit(ctx, userID, amount, models.TransactionAdminDeposit, description)
}

func (l *Ledger) deposit(ctx context.Context, userID string, amount decimal.Decimal, txType models.TransactionType, description string) error {
	if amount.Cmp(decimal.Zero) <= 0 {
		return ErrInvalidAmount
	}

	mu := l.getAccountLock(userID)
	mu.Lock()
	defer mu.Unlock()

	exists, err := l.store.AccountExists(userID)
	if err != nil {
		return err
	}
	if !exists {
		if err := l.store.CreateAccount(ctx, userID, decimal.Zero); err != nil {
			return err
		}
	}

	balance, err := l.store.GetBalance(userID)
	if err != nil {
		return err
	}

	tx := models.NewTransaction(userID, amount, txType, description)
	return l.store.ApplyTransaction(ctx, tx, balance.Add(amount))
}

// Withdraw debits the account and appends one withdrawal transaction. An
// insufficient balance is an expected outcome, reported as (false, nil) —
// callers must branch on the bool and must not assume the withdrawal
// happened. Unknown users simply read as zero balance; no account is
// provisioned.
func (l *Ledger) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, description string) (bool, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return false, ErrInvalidAmount
	}

	mu := l.getAccountLock(userID)
	mu.Lock()
	defer mu.Unlock()

	balance, err := l.store.GetBalance(userID)
	if err != nil {
		return false, err
	}
	if balance.Cmp(amount) < 0 {
		return false, nil
	}

	tx := models.NewTransaction(userID, amount, models.TransactionWithdrawal, description)
	if err := l.store.ApplyTransaction(ctx, tx, balance.Sub(amount)); err != nil {
		return false, err
	}
	return true, nil
}

// TransactionHistory returns the user's transactions in insertion order.
// The returned slice is a snapshot; mutating it does not affect the ledger.
func (l *Ledger) TransactionHistory(userID string) ([]models.Transaction, error) {
	return l.store.GetTransactionsByUser(userID)
}

// AllTransactions returns every transaction in insertion order.
func (l *Ledger) AllTransactions() ([]models.Transaction, error) {
	return l.store.GetTransactions()
}
