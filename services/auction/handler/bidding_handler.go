package handler

import (
	"context"
	"net/http"

	"auction-house/internal/metrics"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, itemID, userID, amount int64) (model.Bid, error)
	GetBidHistory(ctx context.Context, itemID int64) ([]model.BidHistoryEntry, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RecordBidHandler handles POST /api/item/:item_id/bid
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", "invalid item id", err, nil)
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	userID := helpers.CurrentUserID(c)
	bid, err := h.service.PlaceBid(c.Request.Context(), itemID, userID, req.Amount)
	if err != nil {
		metrics.RecordBid(bidOutcome(err))
		helpers.RespondError(c, "RecordBidHandler", "failed to record bid", err, map[string]any{
			"item_id": itemID,
			"user_id": userID,
			"amount":  req.Amount,
		})
		return
	}

	metrics.RecordBid(metrics.BidAccepted)
	resp := helpers.BidResponse{
		BidID:     bid.BidID,
		ItemID:    bid.ItemID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		Timestamp: bid.Timestamp,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":  bid.BidID,
		"item_id": bid.ItemID,
		"user_id": userID,
		"amount":  bid.Amount,
	})
}

// GetBidHistoryHandler handles GET /api/item/:item_id/bid
func (h *BiddingHandler) GetBidHistoryHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetBidHistoryHandler", "invalid item id", err, nil)
		return
	}

	bids, err := h.service.GetBidHistory(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetBidHistoryHandler", "error retrieving bids", err, map[string]any{"item_id": itemID})
		return
	}

	if bids == nil {
		bids = []model.BidHistoryEntry{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("GetBidHistoryHandler", "bids retrieved successfully", map[string]any{
		"item_id": itemID,
		"count":   len(bids),
	})
}

func bidOutcome(err error) string {
	status, _ := helpers.MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		return metrics.BidFailed
	}
	return metrics.BidRejected
}
