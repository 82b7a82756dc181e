package helpers

// Request/Response DTOs

type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1"`
	LastName  string `json:"last_name" binding:"required,min=1"`
	Email     string `json:"email" binding:"required,email"`
	// Length is checked in bytes by the account service; validator counts runes.
	Password  string `json:"password" binding:"required"`
}

type CreateUserResponse struct {
	UserID int64 `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserID       int64  `json:"user_id"`
	SessionToken string `json:"session_token"`
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"required,max=1000"`
	StartingBid int64  `json:"starting_bid" binding:"required,gt=0"`
	EndDate     int64  `json:"end_date" binding:"required,gt=0"`
}

type CreateItemResponse struct {
	ItemID int64 `json:"item_id"`
}

// SearchParams are the query string parameters of GET /api/search
type SearchParams struct {
	Q      string `form:"q"`
	Status string `form:"status" binding:"omitempty,oneof=BID OPEN ARCHIVE"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset *int   `form:"offset" binding:"omitempty,min=0"`
}

type PlaceBidRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     int64 `json:"bid_id"`
	ItemID    int64 `json:"item_id"`
	UserID    int64 `json:"user_id"`
	Amount    int64 `json:"amount"`
	Timestamp int64 `json:"timestamp"`
}

type AskQuestionRequest struct {
	QuestionText string `json:"question_text" binding:"required,max=500"`
}

type AskQuestionResponse struct {
	QuestionID int64 `json:"question_id"`
}

type AnswerQuestionRequest struct {
	AnswerText string `json:"answer_text" binding:"required,max=500"`
}
