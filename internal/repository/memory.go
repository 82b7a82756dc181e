package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu        sync.RWMutex
	users     map[int64]model.User     // key: userID
	emails    map[string]int64         // key: lowercased email -> userID
	sessions  map[string]model.Session // key: token
	items     map[int64]model.Item     // key: itemID
	bids      map[int64][]model.Bid    // key: itemID -> bids in insertion order
	userItems map[int64][]int64        // key: userID -> itemIDs the user has bid on
	questions map[int64]model.Question // key: questionID

	nextUserID     int64
	nextItemID     int64
	nextBidID      int64
	nextQuestionID int64
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:     make(map[int64]model.User),
		emails:    make(map[string]int64),
		sessions:  make(map[string]model.Session),
		items:     make(map[int64]model.Item),
		bids:      make(map[int64][]model.Bid),
		userItems: make(map[int64][]int64),
		questions: make(map[int64]model.Question),
	}
}

// Ping always succeeds for the in-memory store
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// CreateUser stores a new user and returns its ID
func (r *MemoryRepo) CreateUser(_ context.Context, user model.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.emails[key]; exists {
		return 0, fmt.Errorf("create user %s: %w", user.Email, auctionerrors.ErrEmailInUse)
	}

	r.nextUserID++
	user.UserID = r.nextUserID
	r.users[user.UserID] = user
	r.emails[key] = user.UserID
	return user.UserID, nil
}

// GetUserByID returns a user by ID
func (r *MemoryRepo) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %d: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByEmail returns a user by email, ignoring case
func (r *MemoryRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[strings.ToLower(email)]
	if !ok {
		return model.User{}, fmt.Errorf("get user by email %s: %w", email, auctionerrors.ErrUserNotFound)
	}
	return r.users[id], nil
}

// CreateSession stores a session
func (r *MemoryRepo) CreateSession(_ context.Context, session model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[session.UserID]; !ok {
		return fmt.Errorf("create session for user %d: %w", session.UserID, auctionerrors.ErrUserNotFound)
	}
	r.sessions[session.Token] = session
	return nil
}

// GetSession returns the session for a token
func (r *MemoryRepo) GetSession(_ context.Context, token string) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return model.Session{}, fmt.Errorf("get session: %w", auctionerrors.ErrSessionNotFound)
	}
	return session, nil
}

// DeleteSession removes the session for a token
func (r *MemoryRepo) DeleteSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[token]; !ok {
		return fmt.Errorf("delete session: %w", auctionerrors.ErrSessionNotFound)
	}
	delete(r.sessions, token)
	return nil
}

// DeleteExpiredSessions removes sessions expired at now and returns how many were removed
func (r *MemoryRepo) DeleteExpiredSessions(_ context.Context, now int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for token, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed, nil
}

// CreateItem stores a new item and returns its ID
func (r *MemoryRepo) CreateItem(_ context.Context, item model.Item) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[item.CreatorID]; !ok {
		return 0, fmt.Errorf("create item for user %d: %w", item.CreatorID, auctionerrors.ErrUserNotFound)
	}

	r.nextItemID++
	item.ItemID = r.nextItemID
	r.items[item.ItemID] = item
	return item.ItemID, nil
}

// GetItemByID returns an item by ID
func (r *MemoryRepo) GetItemByID(_ context.Context, itemID int64) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %d: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	return item, nil
}

// GetItemDetails returns an item joined with its seller's name
func (r *MemoryRepo) GetItemDetails(_ context.Context, itemID int64) (model.ItemDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return model.ItemDetails{}, fmt.Errorf("get item details %d: %w", itemID, auctionerrors.ErrItemNotFound)
	}
	seller := r.users[item.CreatorID]
	return model.ItemDetails{
		Item:      item,
		FirstName: seller.FirstName,
		LastName:  seller.LastName,
	}, nil
}

// SearchItems filters items by text and status relative to query.UserID
func (r *MemoryRepo) SearchItems(_ context.Context, query model.SearchQuery) ([]model.ItemSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	text := strings.ToLower(query.Text)
	ids := make([]int64, 0, len(r.items))
	for id, item := range r.items {
		if text != "" &&
			!strings.Contains(strings.ToLower(item.Name), text) &&
			!strings.Contains(strings.ToLower(item.Description), text) {
			continue
		}
		if !r.matchesStatus(item, query) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if query.Offset > 0 {
		if query.Offset >= len(ids) {
			ids = nil
		} else {
			ids = ids[query.Offset:]
		}
	}
	if query.Limit > 0 && len(ids) > query.Limit {
		ids = ids[:query.Limit]
	}

	results := make([]model.ItemSummary, 0, len(ids))
	for _, id := range ids {
		results = append(results, r.summarize(r.items[id]))
	}
	return results, nil
}

func (r *MemoryRepo) matchesStatus(item model.Item, query model.SearchQuery) bool {
	switch query.Status {
	case model.StatusOpen:
		return item.CreatorID == query.UserID && !item.Ended(query.Now)
	case model.StatusArchive:
		return item.CreatorID == query.UserID && item.Ended(query.Now)
	case model.StatusBid:
		for _, id := range r.userItems[query.UserID] {
			if id == item.ItemID {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// summarize must be called with the read lock held
func (r *MemoryRepo) summarize(item model.Item) model.ItemSummary {
	seller := r.users[item.CreatorID]
	current := item.StartingBid
	for _, b := range r.bids[item.ItemID] {
		if b.Amount > current {
			current = b.Amount
		}
	}
	return model.ItemSummary{
		ItemID:      item.ItemID,
		Name:        item.Name,
		Description: item.Description,
		EndDate:     item.EndDate,
		CreatorID:   item.CreatorID,
		FirstName:   seller.FirstName,
		LastName:    seller.LastName,
		CurrentBid:  current,
	}
}

// RecordBidForItem records a user's bid on an item if it beats the current highest bid and floor
func (r *MemoryRepo) RecordBidForItem(_ context.Context, bid model.Bid, floor int64) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bid.ItemID]; !ok {
		return model.Bid{}, fmt.Errorf("record bid for item %d: %w", bid.ItemID, auctionerrors.ErrItemNotFound)
	}

	highest := floor
	for _, b := range r.bids[bid.ItemID] {
		if b.Amount > highest {
			highest = b.Amount
		}
	}
	if bid.Amount <= highest {
		return model.Bid{}, fmt.Errorf("record bid for item %d: %w", bid.ItemID, auctionerrors.ErrBidTooLow)
	}

	r.nextBidID++
	bid.BidID = r.nextBidID
	r.bids[bid.ItemID] = append(r.bids[bid.ItemID], bid)

	for _, id := range r.userItems[bid.UserID] {
		if id == bid.ItemID {
			return bid, nil
		}
	}
	r.userItems[bid.UserID] = append(r.userItems[bid.UserID], bid.ItemID)

	return bid, nil
}

// GetBidHistory returns all bids for an item, highest first
func (r *MemoryRepo) GetBidHistory(_ context.Context, itemID int64) ([]model.BidHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[itemID]
	history := make([]model.BidHistoryEntry, 0, len(bids))
	for _, b := range bids {
		bidder := r.users[b.UserID]
		history = append(history, model.BidHistoryEntry{
			ItemID:    b.ItemID,
			Amount:    b.Amount,
			Timestamp: b.Timestamp,
			UserID:    b.UserID,
			FirstName: bidder.FirstName,
			LastName:  bidder.LastName,
		})
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Amount > history[j].Amount })
	return history, nil
}

// CreateQuestion stores a question and returns its ID
func (r *MemoryRepo) CreateQuestion(_ context.Context, question model.Question) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[question.ItemID]; !ok {
		return 0, fmt.Errorf("create question for item %d: %w", question.ItemID, auctionerrors.ErrItemNotFound)
	}

	r.nextQuestionID++
	question.QuestionID = r.nextQuestionID
	question.Answer = nil
	r.questions[question.QuestionID] = question
	return question.QuestionID, nil
}

// GetQuestionByID returns a question by ID
func (r *MemoryRepo) GetQuestionByID(_ context.Context, questionID int64) (model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	question, ok := r.questions[questionID]
	if !ok {
		return model.Question{}, fmt.Errorf("get question %d: %w", questionID, auctionerrors.ErrQuestionNotFound)
	}
	return question, nil
}

// GetQuestionsByItem returns an item's questions, newest first
func (r *MemoryRepo) GetQuestionsByItem(_ context.Context, itemID int64) ([]model.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	questions := make([]model.Question, 0)
	for _, q := range r.questions {
		if q.ItemID == itemID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].QuestionID > questions[j].QuestionID })
	return questions, nil
}

// AnswerQuestion sets or replaces the answer to a question
func (r *MemoryRepo) AnswerQuestion(_ context.Context, questionID int64, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	question, ok := r.questions[questionID]
	if !ok {
		return fmt.Errorf("answer question %d: %w", questionID, auctionerrors.ErrQuestionNotFound)
	}
	question.Answer = &answer
	r.questions[questionID] = question
	return nil
}
