package handler

import (
	"context"
	"net/http"

	catalog "auction-house/internal/catalogService"
	"auction-house/internal/metrics"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type CatalogServiceInterface interface {
	CreateItem(ctx context.Context, creatorID int64, name, description string, startingBid, endDate int64) (int64, error)
	GetItemDetails(ctx context.Context, itemID int64) (model.ItemDetails, error)
	Search(ctx context.Context, req catalog.SearchRequest, userID int64) ([]model.ItemSummary, error)
}

type ItemHandler struct {
	service CatalogServiceInterface
}

func NewItemHandler(service CatalogServiceInterface) *ItemHandler {
	return &ItemHandler{service: service}
}

// CreateItemHandler handles POST /api/item
func (h *ItemHandler) CreateItemHandler(c *gin.Context) {
	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	userID := helpers.CurrentUserID(c)
	itemID, err := h.service.CreateItem(c.Request.Context(), userID, req.Name, req.Description, req.StartingBid, req.EndDate)
	if err != nil {
		helpers.RespondError(c, "CreateItemHandler", "failed to create item", err, map[string]any{"user_id": userID})
		return
	}

	metrics.RecordItemListed()
	utils.JSONResponse(c, http.StatusCreated, helpers.CreateItemResponse{ItemID: itemID}, "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{
		"item_id":      itemID,
		"user_id":      userID,
		"starting_bid": req.StartingBid,
		"end_date":     req.EndDate,
	})
}

// GetItemHandler handles GET /api/item/:item_id
func (h *ItemHandler) GetItemHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", "invalid item id", err, nil)
		return
	}

	details, err := h.service.GetItemDetails(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", "failed to get item", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, details, "item retrieved successfully")
	helpers.LogSuccess("GetItemHandler", "item retrieved successfully", map[string]any{"item_id": itemID})
}

// SearchItemsHandler handles GET /api/search
func (h *ItemHandler) SearchItemsHandler(c *gin.Context) {
	var params helpers.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		helpers.HandleBindError(c, "SearchItemsHandler", err)
		return
	}

	userID := helpers.CurrentUserID(c)
	items, err := h.service.Search(c.Request.Context(), catalog.SearchRequest{
		Text:   params.Q,
		Status: model.SearchStatus(params.Status),
		Limit:  params.Limit,
		Offset: params.Offset,
	}, userID)
	if err != nil {
		helpers.RespondError(c, "SearchItemsHandler", "search failed", err, map[string]any{"q": params.Q, "status": params.Status})
		return
	}

	if items == nil {
		items = []model.ItemSummary{}
	}

	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
	helpers.LogSuccess("SearchItemsHandler", "items retrieved successfully", map[string]any{
		"q":      params.Q,
		"status": params.Status,
		"count":  len(items),
	})
}
