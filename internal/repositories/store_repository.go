package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmasil_backend/internal/models"
)

// StoreRepository defines store and manager database operations.
type StoreRepository interface {
	// Store methods
	CreateStore(executor SQLExecutor, store *models.Store) (int64, error)
	GetStoreByID(storeID int64) (*models.Store, error)
	GetStores(page, pageSize int) ([]models.Store, int, error)
	UpdateStore(executor SQLExecutor, store *models.Store) error
	DeleteStore(executor SQLExecutor, storeID int64) error

	// Manager methods
	CreateManager(executor SQLExecutor, manager *models.Manager) (int64, error)
	GetManagerByID(managerID int64) (*models.Manager, error)
	GetManagers(page, pageSize int) ([]models.Manager, int, error)
	UpdateManager(executor SQLExecutor, manager *models.Manager) error
	DeleteManager(executor SQLExecutor, managerID int64) error

	// Assignment methods (store_managers join table)
	AssignManager(executor SQLExecutor, storeID, managerID int64) error
	UnassignManager(executor SQLExecutor, storeID, managerID int64) error
	GetStoresByManagerID(managerID int64) ([]models.Store, error)
}

type storeRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new instance of StoreRepository.
func NewStoreRepository(db *sql.DB) StoreRepository {
	return &storeRepository{db: db}
}

// --- Store Methods ---

func (r *storeRepository) CreateStore(executor SQLExecutor, store *models.Store) (int64, error) {
	query := `INSERT INTO stores (name, address, phone, hours, manager_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		store.Name, store.Address, store.Phone, store.Hours, store.ManagerID, now, now,
	).Scan(&store.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating store: %v", ErrDatabaseError, err)
	}
	return store.ID, nil
}

func (r *storeRepository) GetStoreByID(storeID int64) (*models.Store, error) {
	store := &models.Store{}
	var managerName sql.NullString
	query := `SELECT s.id, s.name, s.address, s.phone, s.hours, s.manager_id, s.created_at, s.updated_at,
	                 m.name AS manager_name
	          FROM stores s
	          LEFT JOIN managers m ON s.manager_id = m.id
	          WHERE s.id = $1`
	err := r.db.QueryRow(query, storeID).Scan(
		&store.ID, &store.Name, &store.Address, &store.Phone, &store.Hours, &store.ManagerID,
		&store.CreatedAt, &store.UpdatedAt, &managerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting store by ID %d: %v", ErrDatabaseError, storeID, err)
	}
	if store.ManagerID != nil && managerName.Valid {
		store.Manager = &models.Manager{ID: *store.ManagerID, Name: managerName.String, Role: "manager"}
	}
	return store, nil
}

func (r *storeRepository) GetStores(page, pageSize int) ([]models.Store, int, error) {
	stores := []models.Store{}
	totalCount := 0
	query := `SELECT id, name, address, phone, hours, manager_id, created_at, updated_at,
	                 COUNT(*) OVER() AS total_count
	          FROM stores
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying stores: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var store models.Store
		if err := rows.Scan(
			&store.ID, &store.Name, &store.Address, &store.Phone, &store.Hours, &store.ManagerID,
			&store.CreatedAt, &store.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning store: %v", ErrDatabaseError, err)
		}
		stores = append(stores, store)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating store rows: %v", ErrDatabaseError, err)
	}
	return stores, totalCount, nil
}

func (r *storeRepository) UpdateStore(executor SQLExecutor, store *models.Store) error {
	query := `UPDATE stores SET name = $1, address = $2, phone = $3, hours = $4, manager_id = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		store.Name, store.Address, store.Phone, store.Hours, store.ManagerID, time.Now(), store.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating store ID %d: %v", ErrDatabaseError, store.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storeRepository) DeleteStore(executor SQLExecutor, storeID int64) error {
	result, err := executor.Exec(`DELETE FROM stores WHERE id = $1`, storeID)
	if err != nil {
		return fmt.Errorf("%w: deleting store ID %d: %v", ErrDatabaseError, storeID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Manager Methods ---

func (r *storeRepository) CreateManager(executor SQLExecutor, manager *models.Manager) (int64, error) {
	query := `INSERT INTO managers (name, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query, manager.Name, manager.Role, now, now).Scan(&manager.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating manager: %v", ErrDatabaseError, err)
	}
	return manager.ID, nil
}

func (r *storeRepository) GetManagerByID(managerID int64) (*models.Manager, error) {
	manager := &models.Manager{}
	query := `SELECT id, name, role, created_at, updated_at FROM managers WHERE id = $1`
	err := r.db.QueryRow(query, managerID).Scan(
		&manager.ID, &manager.Name, &manager.Role, &manager.CreatedAt, &manager.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting manager by ID %d: %v", ErrDatabaseError, managerID, err)
	}
	return manager, nil
}

func (r *storeRepository) GetManagers(page, pageSize int) ([]models.Manager, int, error) {
	managers := []models.Manager{}
	totalCount := 0
	query := `SELECT id, name, role, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM managers
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying managers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var manager models.Manager
		if err := rows.Scan(
			&manager.ID, &manager.Name, &manager.Role, &manager.CreatedAt, &manager.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning manager: %v", ErrDatabaseError, err)
		}
		managers = append(managers, manager)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating manager rows: %v", ErrDatabaseError, err)
	}
	return managers, totalCount, nil
}

func (r *storeRepository) UpdateManager(executor SQLExecutor, manager *models.Manager) error {
	query := `UPDATE managers SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, manager.Name, time.Now(), manager.ID)
	if err != nil {
		return fmt.Errorf("%w: updating manager ID %d: %v", ErrDatabaseError, manager.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storeRepository) DeleteManager(executor SQLExecutor, managerID int64) error {
	result, err := executor.Exec(`DELETE FROM managers WHERE id = $1`, managerID)
	if err != nil {
		return fmt.Errorf("%w: deleting manager ID %d: %v", ErrDatabaseError, managerID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Assignment Methods ---

func (r *storeRepository) AssignManager(executor SQLExecutor, storeID, managerID int64) error {
	query := `INSERT INTO store_managers (store_id, manager_id, created_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (store_id, manager_id) DO NOTHING`
	if _, err := executor.Exec(query, storeID, managerID, time.Now()); err != nil {
		return fmt.Errorf("%w: assigning manager %d to store %d: %v", ErrDatabaseError, managerID, storeID, err)
	}
	return nil
}

func (r *storeRepository) UnassignManager(executor SQLExecutor, storeID, managerID int64) error {
	result, err := executor.Exec(
		`DELETE FROM store_managers WHERE store_id = $1 AND manager_id = $2`, storeID, managerID,
	)
	if err != nil {
		return fmt.Errorf("%w: unassigning manager %d from store %d: %v", ErrDatabaseError, managerID, storeID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *storeRepository) GetStoresByManagerID(managerID int64) ([]models.Store, error) {
	stores := []models.Store{}
	query := `SELECT s.id, s.name, s.address, s.phone, s.hours, s.manager_id, s.created_at, s.updated_at
	          FROM stores s
	          JOIN store_managers sm ON sm.store_id = s.id
	          WHERE sm.manager_id = $1
	          ORDER BY s.name`
	rows, err := r.db.Query(query, managerID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stores for manager %d: %v", ErrDatabaseError, managerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var store models.Store
		if err := rows.Scan(
			&store.ID, &store.Name, &store.Address, &store.Phone, &store.Hours, &store.ManagerID,
			&store.CreatedAt, &store.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning store for manager %d: %v", ErrDatabaseError, managerID, err)
		}
		stores = append(stores, store)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stores for manager %d: %v", ErrDatabaseError, managerID, err)
	}
	return stores, nil
}
