package services

import (
	"database/sql"
	"errors"
	"fmt"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"
)

var (
	ErrRegisterNotFound    = errors.New("cash register not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient register balance")
)

// --- DTOs ---

type CreateRegisterRequest struct {
	StoreID        *int64  `json:"store_id"`
	OpeningBalance float64 `json:"opening_balance" binding:"gte=0"`
}

type CashMovementRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason *string `json:"reason"`
}

type TransferRequest struct {
	SourceID      int64   `json:"source_id" binding:"required"`
	DestinationID int64   `json:"destination_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Reason        *string `json:"reason"`
}

// --- CashService Interface ---

type CashService interface {
	CreateRegister(req CreateRegisterRequest) (*models.CashRegister, error)
	GetRegisterByID(registerID int64) (*models.CashRegister, error)
	GetRegisters(storeID *int64, page, pageSize int) ([]models.CashRegister, int, error)
	DeleteRegister(registerID int64) error
	RegisterEntry(registerID int64, req CashMovementRequest) (*models.CashRegister, error)
	RegisterExit(registerID int64, req CashMovementRequest) (*models.CashRegister, error)
	Transfer(req TransferRequest) (*models.CashRegister, *models.CashRegister, error)
	GetLedgerEntries(registerID int64, page, pageSize int) ([]models.LedgerEntry, int, error)
}

type cashService struct {
	cashRepo repositories.CashRepository
	db       *sql.DB
}

// NewCashService creates a new instance of CashService.
func NewCashService(repo repositories.CashRepository, db *sql.DB) CashService {
	return &cashService{cashRepo: repo, db: db}
}

// applyEntry mutates the in-memory register for a cash entry.
// Counters and balance move together so balance = total_in - total_out holds.
func applyEntry(register *models.CashRegister, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidAmount, amount)
	}
	register.TotalIn += amount
	register.Balance += amount
	return nil
}

// applyExit mutates the in-memory register for a cash exit.
// The balance check happens before any field changes.
func applyExit(register *models.CashRegister, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidAmount, amount)
	}
	if amount > register.Balance {
		return fmt.Errorf("%w: balance %.2f, requested %.2f", ErrInsufficientBalance, register.Balance, amount)
	}
	register.TotalOut += amount
	register.Balance -= amount
	return nil
}

// --- Method Implementations ---

func (s *cashService) CreateRegister(req CreateRegisterRequest) (*models.CashRegister, error) {
	if req.OpeningBalance < 0 {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", ErrValidation)
	}
	register := models.CashRegister{
		StoreID: req.StoreID,
		Balance: req.OpeningBalance,
		TotalIn: req.OpeningBalance,
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.cashRepo.CreateRegister(tx, &register); err != nil {
		return nil, fmt.Errorf("failed to create cash register: %w", err)
	}
	if req.OpeningBalance > 0 {
		opening := "opening balance"
		entry := models.LedgerEntry{
			RegisterID: register.ID,
			Kind:       models.LedgerKindIn,
			Amount:     req.OpeningBalance,
			Reason:     &opening,
		}
		if _, err := s.cashRepo.CreateLedgerEntry(tx, &entry); err != nil {
			return nil, fmt.Errorf("failed to record opening ledger entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit register creation: %w", err)
	}
	return &register, nil
}

func (s *cashService) GetRegisterByID(registerID int64) (*models.CashRegister, error) {
	register, err := s.cashRepo.GetRegisterByID(registerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, fmt.Errorf("failed to get cash register: %w", err)
	}
	return register, nil
}

func (s *cashService) GetRegisters(storeID *int64, page, pageSize int) ([]models.CashRegister, int, error) {
	registers, totalCount, err := s.cashRepo.GetRegisters(storeID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cash registers: %w", err)
	}
	return registers, totalCount, nil
}

func (s *cashService) DeleteRegister(registerID int64) error {
	if err := s.cashRepo.DeleteRegister(s.db, registerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRegisterNotFound
		}
		return fmt.Errorf("failed to delete cash register: %w", err)
	}
	return nil
}

// RegisterEntry records a cash entry: counters, balance and the ledger entry
// are persisted in one transaction.
func (s *cashService) RegisterEntry(registerID int64, req CashMovementRequest) (*models.CashRegister, error) {
	return s.applyMovement(registerID, req, models.LedgerKindIn)
}

// RegisterExit records a cash exit, failing before any mutation when the
// amount is non-positive or exceeds the balance.
func (s *cashService) RegisterExit(registerID int64, req CashMovementRequest) (*models.CashRegister, error) {
	return s.applyMovement(registerID, req, models.LedgerKindOut)
}

func (s *cashService) applyMovement(registerID int64, req CashMovementRequest, kind string) (*models.CashRegister, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	register, err := s.GetRegisterByID(registerID)
	if err != nil {
		return nil, err
	}

	if kind == models.LedgerKindIn {
		err = applyEntry(register, req.Amount)
	} else {
		err = applyExit(register, req.Amount)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cashRepo.UpdateRegisterCounters(tx, register); err != nil {
		return nil, fmt.Errorf("failed to update register counters: %w", err)
	}
	entry := models.LedgerEntry{
		RegisterID: registerID,
		Kind:       kind,
		Amount:     req.Amount,
		Reason:     req.Reason,
	}
	if _, err := s.cashRepo.CreateLedgerEntry(tx, &entry); err != nil {
		return nil, fmt.Errorf("failed to record ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cash movement: %w", err)
	}
	return register, nil
}

// Transfer moves cash between two registers. Both legs are validated before
// either register is touched, so a failed destination can never leave the
// source already debited.
func (s *cashService) Transfer(req TransferRequest) (*models.CashRegister, *models.CashRegister, error) {
	if req.SourceID == req.DestinationID {
		return nil, nil, fmt.Errorf("%w: source and destination registers must differ", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	source, err := s.GetRegisterByID(req.SourceID)
	if err != nil {
		return nil, nil, err
	}
	destination, err := s.GetRegisterByID(req.DestinationID)
	if err != nil {
		return nil, nil, err
	}

	// Validate both legs on in-memory values before persisting anything.
	if err := applyExit(source, req.Amount); err != nil {
		return nil, nil, err
	}
	if err := applyEntry(destination, req.Amount); err != nil {
		return nil, nil, err
	}

	if err := s.cashRepo.UpdateRegisterCounters(tx, source); err != nil {
		return nil, nil, fmt.Errorf("failed to update source register: %w", err)
	}
	if err := s.cashRepo.UpdateRegisterCounters(tx, destination); err != nil {
		return nil, nil, fmt.Errorf("failed to update destination register: %w", err)
	}

	reason := fmt.Sprintf("transfer to register %d", req.DestinationID)
	if req.Reason != nil {
		reason = *req.Reason
	}
	outEntry := models.LedgerEntry{
		RegisterID: req.SourceID,
		Kind:       models.LedgerKindOut,
		Amount:     req.Amount,
		Reason:     &reason,
	}
	if _, err := s.cashRepo.CreateLedgerEntry(tx, &outEntry); err != nil {
		return nil, nil, fmt.Errorf("failed to record transfer exit: %w", err)
	}
	inReason := fmt.Sprintf("transfer from register %d", req.SourceID)
	inEntry := models.LedgerEntry{
		RegisterID: req.DestinationID,
		Kind:       models.LedgerKindIn,
		Amount:     req.Amount,
		Reason:     &inReason,
	}
	if _, err := s.cashRepo.CreateLedgerEntry(tx, &inEntry); err != nil {
		return nil, nil, fmt.Errorf("failed to record transfer entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return source, destination, nil
}

func (s *cashService) GetLedgerEntries(registerID int64, page, pageSize int) ([]models.LedgerEntry, int, error) {
	if _, err := s.GetRegisterByID(registerID); err != nil {
		return nil, 0, err
	}
	entries, totalCount, err := s.cashRepo.GetLedgerEntries(registerID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	return entries, totalCount, nil
}
