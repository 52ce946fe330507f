package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmasil_backend/internal/models"

	"github.com/lib/pq"
)

// CashRepository defines cash register and ledger entry database operations.
type CashRepository interface {
	CreateRegister(executor SQLExecutor, register *models.CashRegister) (int64, error)
	GetRegisterByID(registerID int64) (*models.CashRegister, error)
	GetRegisters(storeID *int64, page, pageSize int) ([]models.CashRegister, int, error)
	UpdateRegisterCounters(executor SQLExecutor, register *models.CashRegister) error
	DeleteRegister(executor SQLExecutor, registerID int64) error

	CreateLedgerEntry(executor SQLExecutor, entry *models.LedgerEntry) (int64, error)
	GetLedgerEntries(registerID int64, page, pageSize int) ([]models.LedgerEntry, int, error)
}

type cashRepository struct {
	db *sql.DB
}

// NewCashRepository creates a new instance of CashRepository.
func NewCashRepository(db *sql.DB) CashRepository {
	return &cashRepository{db: db}
}

// --- CashRegister Methods ---

func (r *cashRepository) CreateRegister(executor SQLExecutor, register *models.CashRegister) (int64, error) {
	query := `INSERT INTO cash_registers (store_id, balance, total_in, total_out, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		register.StoreID, register.Balance, register.TotalIn, register.TotalOut, now, now,
	).Scan(&register.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating cash register (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating cash register: %v", ErrDatabaseError, err)
	}
	return register.ID, nil
}

func (r *cashRepository) GetRegisterByID(registerID int64) (*models.CashRegister, error) {
	register := &models.CashRegister{}
	query := `SELECT id, store_id, balance, total_in, total_out, created_at, updated_at
	          FROM cash_registers WHERE id = $1`
	err := r.db.QueryRow(query, registerID).Scan(
		&register.ID, &register.StoreID, &register.Balance, &register.TotalIn, &register.TotalOut,
		&register.CreatedAt, &register.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting cash register by ID %d: %v", ErrDatabaseError, registerID, err)
	}
	return register, nil
}

func (r *cashRepository) GetRegisters(storeID *int64, page, pageSize int) ([]models.CashRegister, int, error) {
	registers := []models.CashRegister{}
	totalCount := 0
	query := `SELECT id, store_id, balance, total_in, total_out, created_at, updated_at,
	                 COUNT(*) OVER() AS total_count
	          FROM cash_registers
	          WHERE ($1::BIGINT IS NULL OR store_id = $1)
	          ORDER BY id
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(query, storeID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying cash registers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var register models.CashRegister
		if err := rows.Scan(
			&register.ID, &register.StoreID, &register.Balance, &register.TotalIn, &register.TotalOut,
			&register.CreatedAt, &register.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning cash register: %v", ErrDatabaseError, err)
		}
		registers = append(registers, register)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating cash register rows: %v", ErrDatabaseError, err)
	}
	return registers, totalCount, nil
}

// UpdateRegisterCounters persists balance, total_in and total_out together so the
// balance = total_in - total_out invariant is never split across statements.
func (r *cashRepository) UpdateRegisterCounters(executor SQLExecutor, register *models.CashRegister) error {
	query := `UPDATE cash_registers SET balance = $1, total_in = $2, total_out = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query,
		register.Balance, register.TotalIn, register.TotalOut, time.Now(), register.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating cash register ID %d: %v", ErrDatabaseError, register.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cashRepository) DeleteRegister(executor SQLExecutor, registerID int64) error {
	result, err := executor.Exec(`DELETE FROM cash_registers WHERE id = $1`, registerID)
	if err != nil {
		return fmt.Errorf("%w: deleting cash register ID %d: %v", ErrDatabaseError, registerID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- LedgerEntry Methods ---

func (r *cashRepository) CreateLedgerEntry(executor SQLExecutor, entry *models.LedgerEntry) (int64, error) {
	query := `INSERT INTO ledger_entries (register_id, kind, amount, reason, entry_time)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	if entry.EntryTime.IsZero() {
		entry.EntryTime = time.Now()
	}
	err := executor.QueryRow(query,
		entry.RegisterID, entry.Kind, entry.Amount, entry.Reason, entry.EntryTime,
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating ledger entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *cashRepository) GetLedgerEntries(registerID int64, page, pageSize int) ([]models.LedgerEntry, int, error) {
	entries := []models.LedgerEntry{}
	totalCount := 0
	query := `SELECT id, register_id, kind, amount, reason, entry_time, COUNT(*) OVER() AS total_count
	          FROM ledger_entries
	          WHERE register_id = $1
	          ORDER BY entry_time DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(query, registerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying ledger entries for register %d: %v", ErrDatabaseError, registerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(
			&entry.ID, &entry.RegisterID, &entry.Kind, &entry.Amount, &entry.Reason, &entry.EntryTime,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning ledger entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating ledger entry rows: %v", ErrDatabaseError, err)
	}
	return entries, totalCount, nil
}
