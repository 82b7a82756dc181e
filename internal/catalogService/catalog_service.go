package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	// MinAuctionDuration is how far in the future a new listing must end
	MinAuctionDuration = 60 * time.Second
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// CatalogService manages item listings and search
type CatalogService struct {
	repo repository.AuctionDB
	now  func() time.Time
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(repo repository.AuctionDB) *CatalogService {
	return &CatalogService{repo: repo, now: time.Now}
}

// SetClock replaces the time source
func (s *CatalogService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateItem lists a new item for auction and returns its ID
func (s *CatalogService) CreateItem(ctx context.Context, creatorID int64, name, description string, startingBid, endDate int64) (int64, error) {
	name = strings.TrimSpace(name)
	switch {
	case creatorID <= 0:
		return 0, fmt.Errorf("service: %w - invalid creator", auctionerrors.ErrInvalidInput)
	case name == "" || utf8.RuneCountInString(name) > MaxNameLength:
		return 0, fmt.Errorf("service: %w - name must be 1 to %d characters", auctionerrors.ErrInvalidInput, MaxNameLength)
	case strings.TrimSpace(description) == "" || utf8.RuneCountInString(description) > MaxDescriptionLength:
		return 0, fmt.Errorf("service: %w - description must be 1 to %d characters", auctionerrors.ErrInvalidInput, MaxDescriptionLength)
	case startingBid <= 0:
		return 0, fmt.Errorf("service: %w - starting bid must be positive", auctionerrors.ErrInvalidInput)
	}

	now := s.now().UTC()
	if endDate < now.Add(MinAuctionDuration).Unix() {
		return 0, fmt.Errorf("service: %w", auctionerrors.ErrInvalidEndDate)
	}

	itemID, err := s.repo.CreateItem(ctx, model.Item{
		CreatorID:   creatorID,
		Name:        name,
		Description: description,
		StartingBid: startingBid,
		StartDate:   now.Unix(),
		EndDate:     endDate,
	})
	if err != nil {
		return 0, fmt.Errorf("service: failed to create item: %w", err)
	}
	return itemID, nil
}

// GetItemDetails returns an item with its seller and current highest bid
func (s *CatalogService) GetItemDetails(ctx context.Context, itemID int64) (model.ItemDetails, error) {
	if itemID <= 0 {
		return model.ItemDetails{}, fmt.Errorf("service: %w - invalid item ID", auctionerrors.ErrInvalidInput)
	}

	details, err := s.repo.GetItemDetails(ctx, itemID)
	if err != nil {
		return model.ItemDetails{}, fmt.Errorf("service: failed to get item %d: %w", itemID, err)
	}

	history, err := s.repo.GetBidHistory(ctx, itemID)
	if err != nil {
		return model.ItemDetails{}, fmt.Errorf("service: failed to get bids for item %d: %w", itemID, err)
	}

	details.CurrentBid = details.StartingBid
	details.CurrentBidHolder = nil
	if len(history) > 0 {
		top := history[0]
		details.CurrentBid = top.Amount
		details.CurrentBidHolder = &model.BidHolder{
			UserID:    top.UserID,
			FirstName: top.FirstName,
			LastName:  top.LastName,
		}
	}
	return details, nil
}

// SearchRequest holds caller-supplied search parameters. A nil Limit or Offset takes the default.
type SearchRequest struct {
	Text   string
	Status model.SearchStatus
	Limit  *int
	Offset *int
}

// Search lists items matching req. userID is 0 for anonymous callers, who may not filter by status.
func (s *CatalogService) Search(ctx context.Context, req SearchRequest, userID int64) ([]model.ItemSummary, error) {
	query := model.SearchQuery{
		Text:   strings.TrimSpace(req.Text),
		Status: req.Status,
		UserID: userID,
		Limit:  DefaultSearchLimit,
		Now:    s.now().Unix(),
	}
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > MaxSearchLimit {
			return nil, fmt.Errorf("service: %w - limit must be between 1 and %d", auctionerrors.ErrInvalidInput, MaxSearchLimit)
		}
		query.Limit = *req.Limit
	}
	if req.Offset != nil {
		if *req.Offset < 0 {
			return nil, fmt.Errorf("service: %w - offset must not be negative", auctionerrors.ErrInvalidInput)
		}
		query.Offset = *req.Offset
	}

	switch query.Status {
	case "":
	case model.StatusBid, model.StatusOpen, model.StatusArchive:
		if userID <= 0 {
			return nil, fmt.Errorf("service: %w - status filter %s", auctionerrors.ErrAuthRequired, query.Status)
		}
	default:
		return nil, fmt.Errorf("service: %w - unknown status %q", auctionerrors.ErrInvalidInput, query.Status)
	}

	items, err := s.repo.SearchItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search items: %w", err)
	}
	if items == nil {
		items = []model.ItemSummary{}
	}
	return items, nil
}
