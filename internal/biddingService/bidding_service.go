package bidding

import (
	"context"
	"fmt"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
)

// BiddingService handles bidding operations
type BiddingService struct {
	repo repository.AuctionDB
	now  func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB) *BiddingService {
	return &BiddingService{repo: repo, now: time.Now}
}

// SetClock replaces the time source
func (s *BiddingService) SetClock(now func() time.Time) {
	s.now = now
}

// PlaceBid places a bid on an item. The amount must beat both the starting bid and the
// current highest bid, and the auction must still be running.
func (s *BiddingService) PlaceBid(ctx context.Context, itemID, userID, amount int64) (model.Bid, error) {
	if err := validateBid(itemID, userID, amount); err != nil {
		return model.Bid{}, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get item %d: %w", itemID, err)
	}
	if item.CreatorID == userID {
		return model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrOwnItem)
	}

	now := s.now().Unix()
	if item.Ended(now) {
		return model.Bid{}, fmt.Errorf("service: %w - item %d ended at %d", auctionerrors.ErrAuctionEnded, itemID, item.EndDate)
	}

	bid, err := s.repo.RecordBidForItem(ctx, model.Bid{
		ItemID:    itemID,
		UserID:    userID,
		Amount:    amount,
		Timestamp: now,
	}, item.StartingBid)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to record bid: %w", err)
	}
	return bid, nil
}

// GetBidHistory returns the bids for an item, highest first
func (s *BiddingService) GetBidHistory(ctx context.Context, itemID int64) ([]model.BidHistoryEntry, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid item ID", auctionerrors.ErrInvalidInput)
	}

	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("service: failed to get item %d: %w", itemID, err)
	}

	history, err := s.repo.GetBidHistory(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %d: %w", itemID, err)
	}
	if history == nil {
		history = []model.BidHistoryEntry{}
	}
	return history, nil
}

// validateBid checks basic input validity
func validateBid(itemID, userID, amount int64) error {
	if itemID <= 0 || userID <= 0 || amount <= 0 {
		return fmt.Errorf("service: %w - itemID, userID and positive amount required", auctionerrors.ErrInvalidBid)
	}
	return nil
}
