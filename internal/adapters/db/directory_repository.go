// internal/adapters/db/directory_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

// directoryRepository implements ports.DirectoryRepository against the
// read-only ERP master tables.
type directoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *Database, logger *slog.Logger) ports.DirectoryRepository {
	return &directoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "directory")),
	}
}

// FindUserByName looks up a login account in mis_user.
func (r *directoryRepository) FindUserByName(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRow(ctx, `
		SELECT roworder, user_name, COALESCE(password, '')
		FROM mis_user
		WHERE user_name = $1`,
		username).Scan(&user.RowOrder, &user.UserName, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// FindEmployee looks up a warehouse employee badge in erp_user.
func (r *directoryRepository) FindEmployee(ctx context.Context, code string) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.QueryRow(ctx, `
		SELECT code, COALESCE(name_1, '')
		FROM erp_user
		WHERE code = $1`,
		code).Scan(&employee.Code, &employee.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	return &employee, nil
}

// FindProductBySerial resolves a serial in ic_serial to its ic_inventory
// master record.
func (r *directoryRepository) FindProductBySerial(ctx context.Context, serialNumber string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.QueryRow(ctx, `
		SELECT i.code, COALESCE(i.name_1, ''),
		       COALESCE(i.ic_serial_no, 0), COALESCE(i.is_pharma_serialization, 0)
		FROM ic_serial s
		JOIN ic_inventory i ON i.code = s.ic_code
		WHERE s.serial_number = $1`,
		serialNumber).Scan(&product.Code, &product.Name,
		&product.SerialTracked, &product.PharmaSerialization)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query serial %s: %w", serialNumber, err)
	}
	return &product, nil
}
