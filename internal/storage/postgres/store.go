package postgres

import (
	"context"
	"database/sql"

	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/interfaces"
	"github.com/danish-mehmood/ml-summarization-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

// PostgresLedgerStore persists accounts and transactions in postgres.
//
// Expected schema:
//
//	CREATE TABLE accounts (
//	    user_id    TEXT PRIMARY KEY,
//	    balance    NUMERIC NOT NULL CHECK (balance >= 0),
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE TABLE transactions (
//	    id               TEXT PRIMARY KEY,
//	    user_id          TEXT NOT NULL,
//	    amount           NUMERIC NOT NULL CHECK (amount > 0),
//	    transaction_type TEXT NOT NULL,
//	    description      TEXT NOT NULL DEFAULT '',
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    seq              BIGSERIAL
//	);
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

func (p *PostgresLedgerStore) CreateAccount(ctx context.Context, userID string, balance decimal.Decimal) error {
	const query = `INSERT INTO accounts (user_id, balance) VALUES ($1, $2)`

	_, err := p.db.ExecContext(ctx, query, userID, balance)
	return err
}

func (p *PostgresLedgerStore) AccountExists(userID string) (bool, error) {
	const query = `SELECT 1 FROM accounts WHERE user_id = $1 LIMIT 1`

	var exists int
	err := p.db.QueryRow(query, userID).Scan(&exists)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *PostgresLedgerStore) GetBalance(userID string) (decimal.Decimal, error) {
	const query = `SELECT balance FROM accounts WHERE user_id = $1`

	var balance decimal.Decimal
	err := p.db.QueryRow(query, userID).Scan(&balance)

	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// ApplyTransaction updates the balance row and appends the transaction
// record inside one database transaction, so either both land or neither.
func (p *PostgresLedgerStore) ApplyTransaction(ctx context.Context, tx models.Transaction, newBalance decimal.Decimal) error {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	err = p.updateBalance(ctx, dbTx, tx.UserID, newBalance)
	if err != nil {
		return err
	}

	err = p.saveTransaction(ctx, dbTx, tx)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}

func (p *PostgresLedgerStore) updateBalance(ctx context.Context, dbTx *sql.Tx, userID string, balance decimal.Decimal) error {
	const query = `UPDATE accounts SET balance = $2 WHERE user_id = $1`

	_, err := dbTx.ExecContext(ctx, query, userID, balance)
	return err
}

func (p *PostgresLedgerStore) saveTransaction(ctx context.Context, dbTx *sql.Tx, tx models.Transaction) error {
	const query = `INSERT INTO transactions (id, user_id, amount, transaction_type, description, created_at)
	VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := dbTx.ExecContext(ctx, query, tx.ID, tx.UserID, tx.Amount, tx.Type, tx.Description, tx.CreatedAt)
	return err
}

func (p *PostgresLedgerStore) GetTransactions() ([]models.Transaction, error) {
	const query = `SELECT id, user_id, amount, transaction_type, description, created_at
	FROM transactions ORDER BY seq`

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (p *PostgresLedgerStore) GetTransactionsByUser(userID string) ([]models.Transaction, error) {
	const query = `SELECT id, user_id, amount, transaction_type, description, created_at
	FROM transactions WHERE user_id = $1 ORDER BY seq`

	rows, err := p.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&tx.Type,
			&tx.Description,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
