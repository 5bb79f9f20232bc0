package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tocpharma/packing-be/internal/core/services"
	"github.com/tocpharma/packing-be/internal/handlers"
	"github.com/tocpharma/packing-be/test/helpers"
	"github.com/tocpharma/packing-be/test/mocks"
)

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockDirectoryService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "valid_credentials_return_token",
			body: `{"username":"somchai","password":"s3cret"}`,
			setupMock: func(m *mocks.MockDirectoryService) {
				m.EXPECT().
					Login(gomock.Any(), "somchai", "s3cret").
					Return("signed.jwt.token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "signed.jwt.token",
		},
		{
			name: "wrong_password_is_401",
			body: `{"username":"somchai","password":"wrong"}`,
			setupMock: func(m *mocks.MockDirectoryService) {
				m.EXPECT().
					Login(gomock.Any(), "somchai", "wrong").
					Return("", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid username or password",
		},
		{
			name:           "missing_password_is_400",
			body:           `{"username":"somchai"}`,
			setupMock:      func(m *mocks.MockDirectoryService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "password is required",
		},
		{
			name:           "malformed_body_is_400",
			body:           `{username`,
			setupMock:      func(m *mocks.MockDirectoryService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name: "store_failure_is_500",
			body: `{"username":"somchai","password":"s3cret"}`,
			setupMock: func(m *mocks.MockDirectoryService) {
				m.EXPECT().
					Login(gomock.Any(), "somchai", "s3cret").
					Return("", errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			directory := mocks.NewMockDirectoryService(ctrl)
			tt.setupMock(directory)
			handler := handlers.NewAuthHandler(directory, helpers.TestLogger())

			req := httptest.NewRequest("POST", "/api/v1/auth/login",
				bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
