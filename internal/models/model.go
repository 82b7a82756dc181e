package models

// User represents a registered account. The password hash never leaves the server.
type User struct {
	UserID       int64  `json:"user_id" db:"user_id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Session binds an opaque token to a user. ExpiresAt of 0 means the session never expires.
type Session struct {
	Token     string `json:"session_token" db:"token"`
	UserID    int64  `json:"user_id" db:"user_id"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	ExpiresAt int64  `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given unix time.
func (s Session) Expired(now int64) bool {
	return s.ExpiresAt > 0 && now >= s.ExpiresAt
}

// Item represents an auction listing
type Item struct {
	ItemID      int64  `json:"item_id" db:"item_id"`
	CreatorID   int64  `json:"creator_id" db:"creator_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	StartingBid int64  `json:"starting_bid" db:"starting_bid"`
	StartDate   int64  `json:"start_date" db:"start_date"`
	EndDate     int64  `json:"end_date" db:"end_date"`
}

// Ended reports whether bidding on the item has closed at the given unix time.
func (i Item) Ended(now int64) bool {
	return now > i.EndDate
}

// Bid represents a user's bid on an item
type Bid struct {
	BidID     int64 `json:"bid_id" db:"bid_id"`
	ItemID    int64 `json:"item_id" db:"item_id"`
	UserID    int64 `json:"user_id" db:"user_id"`
	Amount    int64 `json:"amount" db:"amount"`
	Timestamp int64 `json:"timestamp" db:"placed_at"`
}

// Question is asked about an item by a user other than its seller.
type Question struct {
	QuestionID int64   `json:"question_id" db:"question_id"`
	ItemID     int64   `json:"item_id" db:"item_id"`
	AskedBy    int64   `json:"asked_by" db:"asked_by"`
	Question   string  `json:"question_text" db:"question"`
	Answer     *string `json:"answer_text" db:"answer"`
}

// BidHolder identifies the user holding the current highest bid.
type BidHolder struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ItemDetails is an item joined with its seller and current bid state.
type ItemDetails struct {
	Item
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	CurrentBid       int64      `json:"current_bid" db:"-"`
	CurrentBidHolder *BidHolder `json:"current_bid_holder" db:"-"`
}

// BidHistoryEntry is a bid joined with the bidder's name.
type BidHistoryEntry struct {
	ItemID    int64  `json:"item_id" db:"item_id"`
	Amount    int64  `json:"amount" db:"amount"`
	Timestamp int64  `json:"timestamp" db:"placed_at"`
	UserID    int64  `json:"user_id" db:"user_id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// ItemSummary is the row shape returned by search and profile listings.
type ItemSummary struct {
	ItemID      int64  `json:"item_id" db:"item_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	EndDate     int64  `json:"end_date" db:"end_date"`
	CreatorID   int64  `json:"creator_id" db:"creator_id"`
	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	CurrentBid  int64  `json:"current_bid" db:"current_bid"`
}

// UserProfile aggregates a user's listings and bidding activity.
type UserProfile struct {
	UserID        int64         `json:"user_id"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Email         string        `json:"email,omitempty"`
	Selling       []ItemSummary `json:"selling"`
	BiddingOn     []ItemSummary `json:"bidding_on"`
	AuctionsEnded []ItemSummary `json:"auctions_ended"`
}

// SearchStatus filters search results relative to the calling user.
type SearchStatus string

const (
	// StatusBid selects items the caller has bid on.
	StatusBid SearchStatus = "BID"
	// StatusOpen selects the caller's own items that are still running.
	StatusOpen SearchStatus = "OPEN"
	// StatusArchive selects the caller's own items whose auction has ended.
	StatusArchive SearchStatus = "ARCHIVE"
)

// SearchQuery describes an item search. UserID is 0 for anonymous callers.
type SearchQuery struct {
	Text   string
	Status SearchStatus
	UserID int64
	Limit  int
	Offset int
	Now    int64
}
