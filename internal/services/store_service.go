package services

import (
	"database/sql"
	"errors"
	"fmt"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"
	"farmasil_backend/pkg/utils"
)

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrManagerNotFound = errors.New("manager not found")
)

// --- DTOs ---

type CreateStoreRequest struct {
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Phone     *string `json:"phone"`
	Hours     string  `json:"hours" binding:"required"`
	ManagerID *int64  `json:"manager_id"`
}

// UpdateStoreRequest is a per-field patch; nil fields are left unchanged.
type UpdateStoreRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Hours     *string `json:"hours"`
	ManagerID *int64  `json:"manager_id"`
}

type CreateManagerRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateManagerRequest struct {
	Name *string `json:"name"`
}

// --- StoreService Interface ---

type StoreService interface {
	CreateStore(req CreateStoreRequest) (*models.Store, error)
	GetStoreByID(storeID int64) (*models.Store, error)
	GetStores(page, pageSize int) ([]models.Store, int, error)
	UpdateStore(storeID int64, req UpdateStoreRequest) (*models.Store, error)
	DeleteStore(storeID int64) error

	CreateManager(req CreateManagerRequest) (*models.Manager, error)
	GetManagerByID(managerID int64) (*models.Manager, error)
	GetManagers(page, pageSize int) ([]models.Manager, int, error)
	UpdateManager(managerID int64, req UpdateManagerRequest) (*models.Manager, error)
	DeleteManager(managerID int64) error

	AssignManager(storeID, managerID int64) error
	UnassignManager(storeID, managerID int64) error
}

type storeService struct {
	storeRepo repositories.StoreRepository
	db        *sql.DB
}

// NewStoreService creates a new instance of StoreService.
func NewStoreService(repo repositories.StoreRepository, db *sql.DB) StoreService {
	return &storeService{storeRepo: repo, db: db}
}

// --- Store Methods ---

func (s *storeService) CreateStore(req CreateStoreRequest) (*models.Store, error) {
	if utils.IsEmpty(req.Hours) {
		return nil, fmt.Errorf("%w: opening hours cannot be empty", ErrValidation)
	}
	if req.ManagerID != nil {
		if _, err := s.GetManagerByID(*req.ManagerID); err != nil {
			return nil, err
		}
	}

	store := models.Store{
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Hours:     req.Hours,
		ManagerID: req.ManagerID,
	}
	if _, err := s.storeRepo.CreateStore(s.db, &store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return s.GetStoreByID(store.ID)
}

func (s *storeService) GetStoreByID(storeID int64) (*models.Store, error) {
	store, err := s.storeRepo.GetStoreByID(storeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return store, nil
}

func (s *storeService) GetStores(page, pageSize int) ([]models.Store, int, error) {
	stores, totalCount, err := s.storeRepo.GetStores(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stores: %w", err)
	}
	return stores, totalCount, nil
}

func (s *storeService) UpdateStore(storeID int64, req UpdateStoreRequest) (*models.Store, error) {
	store, err := s.GetStoreByID(storeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.Phone != nil {
		store.Phone = req.Phone
	}
	if req.Hours != nil {
		if utils.IsEmpty(*req.Hours) {
			return nil, fmt.Errorf("%w: opening hours cannot be empty", ErrValidation)
		}
		store.Hours = *req.Hours
	}
	if req.ManagerID != nil {
		if _, err := s.GetManagerByID(*req.ManagerID); err != nil {
			return nil, err
		}
		store.ManagerID = req.ManagerID
	}

	if err := s.storeRepo.UpdateStore(s.db, store); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return s.GetStoreByID(storeID)
}

func (s *storeService) DeleteStore(storeID int64) error {
	if err := s.storeRepo.DeleteStore(s.db, storeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStoreNotFound
		}
		return fmt.Errorf("failed to delete store: %w", err)
	}
	return nil
}

// --- Manager Methods ---

func (s *storeService) CreateManager(req CreateManagerRequest) (*models.Manager, error) {
	manager := models.Manager{
		Name: req.Name,
		Role: "manager", // role is fixed for managers
	}
	if _, err := s.storeRepo.CreateManager(s.db, &manager); err != nil {
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}
	return &manager, nil
}

func (s *storeService) GetManagerByID(managerID int64) (*models.Manager, error) {
	manager, err := s.storeRepo.GetManagerByID(managerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	stores, err := s.storeRepo.GetStoresByManagerID(managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stores for manager %d: %w", managerID, err)
	}
	manager.Stores = stores
	return manager, nil
}

func (s *storeService) GetManagers(page, pageSize int) ([]models.Manager, int, error) {
	managers, totalCount, err := s.storeRepo.GetManagers(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get managers: %w", err)
	}
	return managers, totalCount, nil
}

func (s *storeService) UpdateManager(managerID int64, req UpdateManagerRequest) (*models.Manager, error) {
	manager, err := s.GetManagerByID(managerID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		manager.Name = *req.Name
	}
	if err := s.storeRepo.UpdateManager(s.db, manager); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to update manager: %w", err)
	}
	return manager, nil
}

func (s *storeService) DeleteManager(managerID int64) error {
	if err := s.storeRepo.DeleteManager(s.db, managerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrManagerNotFound
		}
		return fmt.Errorf("failed to delete manager: %w", err)
	}
	return nil
}

// --- Assignment Methods ---

func (s *storeService) AssignManager(storeID, managerID int64) error {
	if _, err := s.GetStoreByID(storeID); err != nil {
		return err
	}
	if _, err := s.GetManagerByID(managerID); err != nil {
		return err
	}
	if err := s.storeRepo.AssignManager(s.db, storeID, managerID); err != nil {
		return fmt.Errorf("failed to assign manager %d to store %d: %w", managerID, storeID, err)
	}
	return nil
}

func (s *storeService) UnassignManager(storeID, managerID int64) error {
	if err := s.storeRepo.UnassignManager(s.db, storeID, managerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: manager %d is not assigned to store %d", ErrManagerNotFound, managerID, storeID)
		}
		return fmt.Errorf("failed to unassign manager %d from store %d: %w", managerID, storeID, err)
	}
	return nil
}
