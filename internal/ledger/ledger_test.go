package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/ledger"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/storage/memory"
)

func newLedger() *ledger.Ledger {
	return ledger.NewLedger(memory.NewMemoryLedgerStore())
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCreateAccount(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.CreateAccount(ctx, "alice", dec("100")))

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))
}

func TestCreateAccountDuplicate(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.CreateAccount(ctx, "alice", decimal.Zero))

	err := l.CreateAccount(ctx, "alice", dec("50"))
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCreateAccountNegativeBalance(t *testing.T) {
	l := newLedger()

	err := l.CreateAccount(context.Background(), "alice", dec("-1"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestGetBalanceUnknownUserIsZero(t *testing.T) {
	l := newLedger()

	balance, err := l.GetBalance("nobody")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	// Queries must not provision accounts.
	err = l.CreateAccount(context.Background(), "nobody", decimal.Zero)
	assert.NoError(t, err)
}

func TestDepositInvalidAmount(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	assert.ErrorIs(t, l.Deposit(ctx, "alice", decimal.Zero, "zero"), ledger.ErrInvalidAmount)
	assert.ErrorIs(t, l.Deposit(ctx, "alice", dec("-5"), "negative"), ledger.ErrInvalidAmount)

	transactions, err := l.AllTransactions()
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestDepositAutoProvisionsUnknownUser(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "alice", dec("25"), "first deposit"))

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("25")))

	// The account now exists, so explicit creation must fail.
	assert.ErrorIs(t, l.CreateAccount(ctx, "alice", decimal.Zero), ledger.ErrDuplicateAccount)
}

func TestDepositAppendsOneTransaction(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "alice", dec("25"), "top up"))

	transactions, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionDeposit, transactions[0].Type)
	assert.True(t, transactions[0].Amount.Equal(dec("25")))
	assert.Equal(t, "top up", transactions[0].Description)
	assert.NotEmpty(t, transactions[0].ID)
}

func TestAdminDepositKind(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.AdminDeposit(ctx, "alice", dec("100"), "operator top up"))

	transactions, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionAdminDeposit, transactions[0].Type)
}

func TestWithdrawInvalidAmount(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, "alice", dec("100")))

	_, err := l.Withdraw(ctx, "alice", decimal.Zero, "zero")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = l.Withdraw(ctx, "alice", dec("-10"), "negative")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, "alice", dec("5")))

	ok, err := l.Withdraw(ctx, "alice", dec("10"), "too much")
	require.NoError(t, err)
	assert.False(t, ok)

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("5")))

	transactions, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	assert.Empty(t, transactions)
}

func TestWithdrawDoesNotProvisionUnknownUser(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	ok, err := l.Withdraw(ctx, "nobody", dec("10"), "from nothing")
	require.NoError(t, err)
	assert.False(t, ok)

	// No account was silently created.
	assert.NoError(t, l.CreateAccount(ctx, "nobody", decimal.Zero))
}

func TestWithdrawDecrementsAndRecords(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, "alice", dec("100")))

	ok, err := l.Withdraw(ctx, "alice", dec("10"), "payment")
	require.NoError(t, err)
	assert.True(t, ok)

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("90")))

	transactions, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionWithdrawal, transactions[0].Type)
	assert.True(t, transactions[0].Amount.Equal(dec("10")))
}

func TestHasSufficientBalance(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, "alice", dec("10")))

	ok, err := l.HasSufficientBalance("alice", dec("10"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.HasSufficientBalance("alice", dec("10.01"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.HasSufficientBalance("nobody", dec("1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceConservation(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, "alice", dec("100")))

	require.NoError(t, l.Deposit(ctx, "alice", dec("40"), "d1"))
	ok, err := l.Withdraw(ctx, "alice", dec("30"), "w1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Deposit(ctx, "alice", dec("5.50"), "d2"))
	ok, err = l.Withdraw(ctx, "alice", dec("200"), "w2 rejected")
	require.NoError(t, err)
	require.False(t, ok)

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("115.50")))

	// The signed sum of the transaction log must equal the balance delta.
	transactions, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(tx.Type.Signed(tx.Amount))
	}
	assert.True(t, sum.Equal(balance.Sub(dec("100"))))
}

func TestTransactionHistoryIsSnapshot(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.Deposit(ctx, "alice", dec("10"), "d1"))

	first, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	require.Len(t, first, 1)

	first[0].Description = "tampered"

	second, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	assert.Equal(t, "d1", second[0].Description)
}

func TestTransactionOrderIsInsertionOrder(t *testing.T) {
	l := newLedger()
	ctx := context.Background()

	require.NoError(t, l.Deposit(ctx, "alice", dec("1"), "first"))
	require.NoError(t, l.Deposit(ctx, "bob", dec("2"), "second"))
	require.NoError(t, l.Deposit(ctx, "alice", dec("3"), "third"))

	all, err := l.AllTransactions()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Description)
	assert.Equal(t, "second", all[1].Description)
	assert.Equal(t, "third", all[2].Description)

	alice, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "first", alice[0].Description)
	assert.Equal(t, "third", alice[1].Description)
}

func TestConcurrentWithdrawalsSingleWinner(t *testing.T) {
	l := newLedger()
	ctx := context.Background()
	require.NoError(t, l.CreateAccount(ctx, "alice", dec("10")))

	const attempts = 20

	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Withdraw(ctx, "alice", dec("10"), "race")
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	balance, err := l.GetBalance("alice")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	transactions, err := l.TransactionHistory("alice")
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}
