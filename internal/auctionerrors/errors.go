package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrEmailInUse       = errors.New("email already in use")
)

// business logic errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidBid         = errors.New("invalid bid")
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrAuctionEnded       = errors.New("auction has already ended")
	ErrInvalidEndDate     = errors.New("end date must be at least one minute in the future")
	ErrOwnItem            = errors.New("operation not allowed on your own item")
	ErrNotSeller          = errors.New("only the seller can answer questions on their items")
	ErrInvalidCredentials = errors.New("invalid email/password supplied")
	ErrInvalidPassword    = errors.New("password must be 6 to 72 bytes")
)

// authentication errors
var (
	ErrMissingToken = errors.New("missing session token")
	ErrUnauthorized = errors.New("invalid or expired session token")
	ErrAuthRequired = errors.New("authentication required")
)
