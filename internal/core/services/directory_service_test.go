// internal/core/services/directory_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/services"
	"github.com/tocpharma/packing-be/test/helpers"
	"github.com/tocpharma/packing-be/test/mocks"
)

func newDirectoryService(t *testing.T) (*services.DirectoryService, *mocks.MockDirectoryRepository, *mocks.MockTokenIssuer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDirectoryRepository(ctrl)
	tokens := mocks.NewMockTokenIssuer(ctrl)

	svc := services.NewDirectoryService(repo, tokens, helpers.TestLogger())
	return svc, repo, tokens
}

func TestDirectoryService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMocks    func(repo *mocks.MockDirectoryRepository, tokens *mocks.MockTokenIssuer)
		expectedToken string
		expectedError error
		errorContains string
	}{
		{
			name:     "valid_credentials_return_token",
			username: "somchai",
			password: "secret",
			setupMocks: func(repo *mocks.MockDirectoryRepository, tokens *mocks.MockTokenIssuer) {
				repo.EXPECT().FindUserByName(gomock.Any(), "somchai").
					Return(&domain.User{UserName: "somchai", Password: "secret"}, nil)
				tokens.EXPECT().Issue("somchai").Return("signed-token", nil)
			},
			expectedToken: "signed-token",
		},
		{
			name:     "wrong_password_is_rejected",
			username: "somchai",
			password: "wrong",
			setupMocks: func(repo *mocks.MockDirectoryRepository, tokens *mocks.MockTokenIssuer) {
				repo.EXPECT().FindUserByName(gomock.Any(), "somchai").
					Return(&domain.User{UserName: "somchai", Password: "secret"}, nil)
			},
			expectedError: services.ErrInvalidCredentials,
		},
		{
			name:     "unknown_user_maps_to_invalid_credentials",
			username: "ghost",
			password: "secret",
			setupMocks: func(repo *mocks.MockDirectoryRepository, tokens *mocks.MockTokenIssuer) {
				repo.EXPECT().FindUserByName(gomock.Any(), "ghost").
					Return(nil, domain.ErrNotFound)
			},
			expectedError: services.ErrInvalidCredentials,
		},
		{
			name:          "missing_credentials_are_a_bad_request",
			username:      "",
			password:      "",
			setupMocks:    func(repo *mocks.MockDirectoryRepository, tokens *mocks.MockTokenIssuer) {},
			errorContains: "username/password are required",
		},
		{
			name:     "store_error_is_not_masked_as_invalid_credentials",
			username: "somchai",
			password: "secret",
			setupMocks: func(repo *mocks.MockDirectoryRepository, tokens *mocks.MockTokenIssuer) {
				repo.EXPECT().FindUserByName(gomock.Any(), "somchai").
					Return(nil, errors.New("connection refused"))
			},
			errorContains: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tokens := newDirectoryService(t)
			tt.setupMocks(repo, tokens)

			token, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}

func TestDirectoryService_ValidateEmployee(t *testing.T) {
	t.Run("resolves_known_badge", func(t *testing.T) {
		svc, repo, _ := newDirectoryService(t)
		repo.EXPECT().FindEmployee(gomock.Any(), "EMP-7").
			Return(&domain.Employee{Code: "EMP-7", Name: "Packer"}, nil)

		employee, err := svc.ValidateEmployee(context.Background(), "EMP-7")

		require.NoError(t, err)
		assert.Equal(t, "Packer", employee.Name)
	})

	t.Run("unknown_badge_propagates_not_found", func(t *testing.T) {
		svc, repo, _ := newDirectoryService(t)
		repo.EXPECT().FindEmployee(gomock.Any(), "EMP-GONE").
			Return(nil, domain.ErrNotFound)

		_, err := svc.ValidateEmployee(context.Background(), "EMP-GONE")

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("empty_badge_is_a_bad_request", func(t *testing.T) {
		svc, _, _ := newDirectoryService(t)

		_, err := svc.ValidateEmployee(context.Background(), "")

		require.Error(t, err)
		var badReq *domain.BadRequestError
		assert.ErrorAs(t, err, &badReq)
	})
}

func TestDirectoryService_ProductBySerial(t *testing.T) {
	t.Run("resolves_serial_to_product", func(t *testing.T) {
		svc, repo, _ := newDirectoryService(t)
		repo.EXPECT().FindProductBySerial(gomock.Any(), "SN-0001").
			Return(&domain.Product{Code: "MED-001", Name: "Amoxicillin 500mg"}, nil)

		product, err := svc.ProductBySerial(context.Background(), "SN-0001")

		require.NoError(t, err)
		assert.Equal(t, "MED-001", product.Code)
	})

	t.Run("unknown_serial_propagates_not_found", func(t *testing.T) {
		svc, repo, _ := newDirectoryService(t)
		repo.EXPECT().FindProductBySerial(gomock.Any(), "SN-GONE").
			Return(nil, domain.ErrNotFound)

		_, err := svc.ProductBySerial(context.Background(), "SN-GONE")

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}
