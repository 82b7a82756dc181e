package questions

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
)

const MaxTextLength = 500

// QuestionService handles questions about items and the sellers' answers
type QuestionService struct {
	repo repository.AuctionDB
}

// NewQuestionService creates a new QuestionService instance
func NewQuestionService(repo repository.AuctionDB) *QuestionService {
	return &QuestionService{repo: repo}
}

// AskQuestion records a question about an item. Sellers cannot ask about their own items.
func (s *QuestionService) AskQuestion(ctx context.Context, itemID, userID int64, text string) (int64, error) {
	text, err := validateText(text)
	if err != nil {
		return 0, err
	}
	if itemID <= 0 || userID <= 0 {
		return 0, fmt.Errorf("service: %w - invalid item or user", auctionerrors.ErrInvalidInput)
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to get item %d: %w", itemID, err)
	}
	if item.CreatorID == userID {
		return 0, fmt.Errorf("service: %w", auctionerrors.ErrOwnItem)
	}

	questionID, err := s.repo.CreateQuestion(ctx, model.Question{
		ItemID:   itemID,
		AskedBy:  userID,
		Question: text,
	})
	if err != nil {
		return 0, fmt.Errorf("service: failed to create question: %w", err)
	}
	return questionID, nil
}

// GetQuestions lists an item's questions, newest first
func (s *QuestionService) GetQuestions(ctx context.Context, itemID int64) ([]model.Question, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid item ID", auctionerrors.ErrInvalidInput)
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("service: failed to get item %d: %w", itemID, err)
	}

	questions, err := s.repo.GetQuestionsByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get questions for item %d: %w", itemID, err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// AnswerQuestion sets the answer to a question. Only the item's seller may answer; a
// second answer replaces the first.
func (s *QuestionService) AnswerQuestion(ctx context.Context, questionID, userID int64, text string) error {
	text, err := validateText(text)
	if err != nil {
		return err
	}
	if questionID <= 0 || userID <= 0 {
		return fmt.Errorf("service: %w - invalid question or user", auctionerrors.ErrInvalidInput)
	}

	question, err := s.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("service: failed to get question %d: %w", questionID, err)
	}

	item, err := s.repo.GetItemByID(ctx, question.ItemID)
	if err != nil {
		return fmt.Errorf("service: failed to get item %d: %w", question.ItemID, err)
	}
	if item.CreatorID != userID {
		return fmt.Errorf("service: %w", auctionerrors.ErrNotSeller)
	}

	if err := s.repo.AnswerQuestion(ctx, questionID, text); err != nil {
		return fmt.Errorf("service: failed to answer question %d: %w", questionID, err)
	}
	return nil
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxTextLength {
		return "", fmt.Errorf("service: %w - text must be 1 to %d characters", auctionerrors.ErrInvalidInput, MaxTextLength)
	}
	return text, nil
}
