// internal/core/services/directory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
)

// ErrInvalidCredentials is returned by Login for a bad username or password.
// Handlers map it to 401 without revealing which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenIssuer mints an access token for an authenticated account.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// DirectoryService serves login and the master-data lookups the packing
// clients need: employee badge validation and product-by-serial.
type DirectoryService struct {
	repo   ports.DirectoryRepository
	tokens TokenIssuer
	logger *slog.Logger
}

var _ ports.DirectoryService = (*DirectoryService)(nil)

func NewDirectoryService(repo ports.DirectoryRepository, tokens TokenIssuer, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{
		repo:   repo,
		tokens: tokens,
		logger: logger.With(slog.String("service", "directory")),
	}
}

// Login checks the credentials against mis_user and returns a signed token.
// The upstream account table stores passwords in the clear, so this is a
// plain comparison against what the store returns.
func (s *DirectoryService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", &domain.BadRequestError{Field: "username/password", Reason: "are required"}
	}

	user, err := s.repo.FindUserByName(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password != password {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.UserName)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user", user.UserName))
	return token, nil
}

// ValidateEmployee resolves a warehouse employee badge code against erp_user.
func (s *DirectoryService) ValidateEmployee(ctx context.Context, code string) (*domain.Employee, error) {
	if code == "" {
		return nil, &domain.BadRequestError{Field: "employee_id", Reason: "is required"}
	}

	employee, err := s.repo.FindEmployee(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to validate employee %s: %w", code, err)
	}
	return employee, nil
}

// ProductBySerial resolves a scanned serial to its product master record.
func (s *DirectoryService) ProductBySerial(ctx context.Context, serialNumber string) (*domain.Product, error) {
	if serialNumber == "" {
		return nil, &domain.BadRequestError{Field: "serial_number", Reason: "is required"}
	}

	product, err := s.repo.FindProductBySerial(ctx, serialNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve serial %s: %w", serialNumber, err)
	}
	return product, nil
}
