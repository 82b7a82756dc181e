package repository

import (
	"context"

	model "auction-house/internal/models"
)

//go:generate mockgen -destination=mock_repository.go -package=repository auction-house/internal/repository AuctionDB

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) (int64, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session model.Session) error
	GetSession(ctx context.Context, token string) (model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now int64) (int64, error)
}

// ItemStore persists auction listings.
type ItemStore interface {
	CreateItem(ctx context.Context, item model.Item) (int64, error)
	GetItemByID(ctx context.Context, itemID int64) (model.Item, error)
	GetItemDetails(ctx context.Context, itemID int64) (model.ItemDetails, error)
	// SearchItems returns matching items ordered by item ID. A Limit of 0 returns every match.
	SearchItems(ctx context.Context, query model.SearchQuery) ([]model.ItemSummary, error)
}

// BidStore persists bids.
type BidStore interface {
	// RecordBidForItem inserts the bid only if its amount exceeds both the current highest
	// bid and floor, in a single statement. Otherwise it returns ErrBidTooLow.
	RecordBidForItem(ctx context.Context, bid model.Bid, floor int64) (model.Bid, error)
	// GetBidHistory returns the item's bids, highest amount first.
	GetBidHistory(ctx context.Context, itemID int64) ([]model.BidHistoryEntry, error)
}

// QuestionStore persists questions and their answers.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, question model.Question) (int64, error)
	GetQuestionByID(ctx context.Context, questionID int64) (model.Question, error)
	// GetQuestionsByItem returns the item's questions, newest first.
	GetQuestionsByItem(ctx context.Context, itemID int64) ([]model.Question, error)
	AnswerQuestion(ctx context.Context, questionID int64, answer string) error
}

// AuctionDB defines the storage interface for the auction system
type AuctionDB interface {
	UserStore
	SessionStore
	ItemStore
	BidStore
	QuestionStore
	Ping(ctx context.Context) error
}
