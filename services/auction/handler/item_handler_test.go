package handler

import (
	"net/http"
	"testing"

	"auction-house/internal/auctionerrors"
	catalog "auction-house/internal/catalogService"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Test CreateItemHandler
func TestCreateItemHandler(t *testing.T) {
	t.Parallel()

	valid := helpers.CreateItemRequest{Name: "Lamp", Description: "Brass", StartingBid: 10, EndDate: 1900000000}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockCatalogServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: valid,
			mockSetup: func(m *MockCatalogServiceInterface) {
				m.EXPECT().CreateItem(gomock.Any(), int64(5), "Lamp", "Brass", int64(10), int64(1900000000)).Return(int64(12), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "item created successfully",
		},
		{
			name:           "missing_name",
			requestBody:    helpers.CreateItemRequest{StartingBid: 10, EndDate: 1900000000},
			mockSetup:      func(m *MockCatalogServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_description",
			requestBody:    helpers.CreateItemRequest{Name: "Lamp", StartingBid: 10, EndDate: 1900000000},
			mockSetup:      func(m *MockCatalogServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "zero_starting_bid",
			requestBody:    helpers.CreateItemRequest{Name: "Lamp", StartingBid: 0, EndDate: 1900000000},
			mockSetup:      func(m *MockCatalogServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "end_date_too_soon",
			requestBody: valid,
			mockSetup: func(m *MockCatalogServiceInterface) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), auctionerrors.ErrInvalidEndDate)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid end date",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockCatalogServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(5)
			router.POST("/api/item", NewItemHandler(mockService).CreateItemHandler)

			status, resp := doRequest(t, router, http.MethodPost, "/api/item", tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if status == http.StatusCreated {
				require.Equal(t, 12.0, resp["data"].(map[string]any)["item_id"])
			}
		})
	}
}

// Test GetItemHandler
func TestGetItemHandler(t *testing.T) {
	t.Parallel()

	details := model.ItemDetails{
		Item:             model.Item{ItemID: 3, CreatorID: 1, Name: "Vase", StartingBid: 20, EndDate: 1900000000},
		FirstName:        "Sal",
		LastName:         "Er",
		CurrentBid:       25,
		CurrentBidHolder: &model.BidHolder{UserID: 2, FirstName: "Bo", LastName: "B"},
	}

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockCatalogServiceInterface(ctrl)
		mockService.EXPECT().GetItemDetails(gomock.Any(), int64(3)).Return(details, nil)

		router := newTestRouter(0)
		router.GET("/api/item/:item_id", NewItemHandler(mockService).GetItemHandler)

		status, resp := doRequest(t, router, http.MethodGet, "/api/item/3", nil)
		require.Equal(t, http.StatusOK, status)
		data := resp["data"].(map[string]any)
		require.Equal(t, "Vase", data["name"])
		require.Equal(t, 25.0, data["current_bid"])
		require.Equal(t, "Bo", data["current_bid_holder"].(map[string]any)["first_name"])
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockCatalogServiceInterface(ctrl)
		mockService.EXPECT().GetItemDetails(gomock.Any(), int64(4)).Return(model.ItemDetails{}, auctionerrors.ErrItemNotFound)

		router := newTestRouter(0)
		router.GET("/api/item/:item_id", NewItemHandler(mockService).GetItemHandler)

		status, resp := doRequest(t, router, http.MethodGet, "/api/item/4", nil)
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "item not found", resp["message"])
	})
}

// Test SearchItemsHandler
func TestSearchItemsHandler(t *testing.T) {
	t.Parallel()

	ten, five := 10, 5
	results := []model.ItemSummary{{ItemID: 1, Name: "Lamp"}}

	tests := []struct {
		name           string
		path           string
		userID         int64
		mockSetup      func(m *MockCatalogServiceInterface)
		expectedStatus int
	}{
		{
			name: "text_query",
			path: "/api/search?q=lamp",
			mockSetup: func(m *MockCatalogServiceInterface) {
				m.EXPECT().Search(gomock.Any(), catalog.SearchRequest{Text: "lamp"}, int64(0)).Return(results, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "status_and_paging",
			path:   "/api/search?status=OPEN&limit=10&offset=5",
			userID: 3,
			mockSetup: func(m *MockCatalogServiceInterface) {
				m.EXPECT().Search(gomock.Any(), catalog.SearchRequest{Status: model.StatusOpen, Limit: &ten, Offset: &five}, int64(3)).Return(results, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad_status",
			path:           "/api/search?status=SOLD",
			mockSetup:      func(m *MockCatalogServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "limit_out_of_range",
			path:           "/api/search?limit=101",
			mockSetup:      func(m *MockCatalogServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative_offset",
			path:           "/api/search?offset=-1",
			mockSetup:      func(m *MockCatalogServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "status_without_session",
			path: "/api/search?status=BID",
			mockSetup: func(m *MockCatalogServiceInterface) {
				m.EXPECT().Search(gomock.Any(), gomock.Any(), int64(0)).Return(nil, auctionerrors.ErrAuthRequired)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockCatalogServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(tc.userID)
			router.GET("/api/search", NewItemHandler(mockService).SearchItemsHandler)

			status, resp := doRequest(t, router, http.MethodGet, tc.path, nil)
			require.Equal(t, tc.expectedStatus, status)
			if status == http.StatusOK {
				require.Len(t, resp["data"], 1)
			}
		})
	}
}
