package handler

import (
	"errors"
	"net/http"
	"testing"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test CreateUserHandler
func TestCreateUserHandler(t *testing.T) {
	t.Parallel()

	valid := helpers.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret1"}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAccountServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: valid,
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().CreateUser(gomock.Any(), "Ada", "Lovelace", "ada@example.com", "secret1").Return(int64(1), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "user created successfully",
		},
		{
			name:           "invalid_email",
			requestBody:    helpers.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Email: "not-an-email", Password: "secret1"},
			mockSetup:      func(m *MockAccountServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "short_password",
			requestBody: helpers.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "12345"},
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "12345").
					Return(int64(0), auctionerrors.ErrInvalidPassword)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "password must be 6 to 72 bytes",
		},
		{
			name:        "multibyte_password_reaches_service",
			requestBody: helpers.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "日本語"},
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().CreateUser(gomock.Any(), "Ada", "Lovelace", "ada@example.com", "日本語").Return(int64(1), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "user created successfully",
		},
		{
			name:           "missing_last_name",
			requestBody:    map[string]any{"first_name": "Ada", "email": "ada@example.com", "password": "secret1"},
			mockSetup:      func(m *MockAccountServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "email_in_use",
			requestBody: valid,
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), auctionerrors.ErrEmailInUse)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "email already in use",
		},
		{
			name:        "service_failure",
			requestBody: valid,
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockAccountServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(0)
			router.POST("/api/users", NewUserHandler(mockService).CreateUserHandler)

			status, resp := doRequest(t, router, http.MethodPost, "/api/users", tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if status == http.StatusCreated {
				require.Equal(t, 1.0, resp["data"].(map[string]any)["user_id"])
			}
		})
	}
}

// Test LoginHandler
func TestLoginHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockAccountServiceInterface(ctrl)
		mockService.EXPECT().Login(gomock.Any(), "ada@example.com", "secret1").
			Return(model.Session{Token: "tok123", UserID: 4}, nil)

		router := newTestRouter(0)
		router.POST("/api/login", NewUserHandler(mockService).LoginHandler)

		status, resp := doRequest(t, router, http.MethodPost, "/api/login", helpers.LoginRequest{Email: "ada@example.com", Password: "secret1"})
		require.Equal(t, http.StatusOK, status)
		data := resp["data"].(map[string]any)
		require.Equal(t, 4.0, data["user_id"])
		require.Equal(t, "tok123", data["session_token"])
	})

	t.Run("bad_credentials", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockAccountServiceInterface(ctrl)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Session{}, auctionerrors.ErrInvalidCredentials)

		router := newTestRouter(0)
		router.POST("/api/login", NewUserHandler(mockService).LoginHandler)

		status, resp := doRequest(t, router, http.MethodPost, "/api/login", helpers.LoginRequest{Email: "ada@example.com", Password: "nope"})
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "invalid email/password supplied", resp["message"])
	})

	t.Run("missing_password", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockAccountServiceInterface(ctrl)

		router := newTestRouter(0)
		router.POST("/api/login", NewUserHandler(mockService).LoginHandler)

		status, _ := doRequest(t, router, http.MethodPost, "/api/login", map[string]any{"email": "ada@example.com"})
		require.Equal(t, http.StatusBadRequest, status)
	})
}

// Test LogoutHandler
func TestLogoutHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockAccountServiceInterface(ctrl)
		mockService.EXPECT().Logout(gomock.Any(), "test-token").Return(nil)

		router := newTestRouter(4)
		router.POST("/api/logout", NewUserHandler(mockService).LogoutHandler)

		status, resp := doRequest(t, router, http.MethodPost, "/api/logout", nil)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "logged out successfully", resp["message"])
	})

	t.Run("unknown_session", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockAccountServiceInterface(ctrl)
		mockService.EXPECT().Logout(gomock.Any(), "test-token").Return(auctionerrors.ErrUnauthorized)

		router := newTestRouter(4)
		router.POST("/api/logout", NewUserHandler(mockService).LogoutHandler)

		status, _ := doRequest(t, router, http.MethodPost, "/api/logout", nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})
}

// Test GetUserProfileHandler
func TestGetUserProfileHandler(t *testing.T) {
	t.Parallel()

	profile := model.UserProfile{
		UserID:        2,
		FirstName:     "Cy",
		LastName:      "Young",
		Selling:       []model.ItemSummary{{ItemID: 1}},
		BiddingOn:     []model.ItemSummary{},
		AuctionsEnded: []model.ItemSummary{},
	}

	tests := []struct {
		name           string
		path           string
		viewer         int64
		mockSetup      func(m *MockAccountServiceInterface)
		expectedStatus int
	}{
		{
			name:   "anonymous_viewer",
			path:   "/api/users/2",
			viewer: 0,
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().GetProfile(gomock.Any(), int64(2), int64(0)).Return(profile, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "self_viewer",
			path:   "/api/users/2",
			viewer: 2,
			mockSetup: func(m *MockAccountServiceInterface) {
				withEmail := profile
				withEmail.Email = "cy@example.com"
				m.EXPECT().GetProfile(gomock.Any(), int64(2), int64(2)).Return(withEmail, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "unknown_user",
			path:   "/api/users/9",
			viewer: 0,
			mockSetup: func(m *MockAccountServiceInterface) {
				m.EXPECT().GetProfile(gomock.Any(), int64(9), int64(0)).Return(model.UserProfile{}, auctionerrors.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad_id",
			path:           "/api/users/x1",
			mockSetup:      func(m *MockAccountServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockAccountServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(tc.viewer)
			router.GET("/api/users/:user_id", NewUserHandler(mockService).GetUserProfileHandler)

			status, resp := doRequest(t, router, http.MethodGet, tc.path, nil)
			require.Equal(t, tc.expectedStatus, status)
			if status != http.StatusOK {
				return
			}

			data := resp["data"].(map[string]any)
			require.Equal(t, "Cy", data["first_name"])
			require.Len(t, data["selling"], 1)
			_, hasEmail := data["email"]
			require.Equal(t, tc.viewer == 2, hasEmail)
		})
	}
}
