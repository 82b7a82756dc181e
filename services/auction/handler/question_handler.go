package handler

import (
	"context"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type QuestionServiceInterface interface {
	AskQuestion(ctx context.Context, itemID, userID int64, text string) (int64, error)
	GetQuestions(ctx context.Context, itemID int64) ([]model.Question, error)
	AnswerQuestion(ctx context.Context, questionID, userID int64, text string) error
}

type QuestionHandler struct {
	service QuestionServiceInterface
}

func NewQuestionHandler(service QuestionServiceInterface) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// AskQuestionHandler handles POST /api/item/:item_id/question
func (h *QuestionHandler) AskQuestionHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "AskQuestionHandler", "invalid item id", err, nil)
		return
	}

	var req helpers.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AskQuestionHandler", err)
		return
	}

	userID := helpers.CurrentUserID(c)
	questionID, err := h.service.AskQuestion(c.Request.Context(), itemID, userID, req.QuestionText)
	if err != nil {
		helpers.RespondError(c, "AskQuestionHandler", "failed to ask question", err, map[string]any{
			"item_id": itemID,
			"user_id": userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.AskQuestionResponse{QuestionID: questionID}, "question asked successfully")
	helpers.LogSuccess("AskQuestionHandler", "question asked successfully", map[string]any{
		"question_id": questionID,
		"item_id":     itemID,
		"user_id":     userID,
	})
}

// GetQuestionsHandler handles GET /api/item/:item_id/question
func (h *QuestionHandler) GetQuestionsHandler(c *gin.Context) {
	itemID, err := helpers.ParseIDParam(c, "item_id")
	if err != nil {
		helpers.RespondError(c, "GetQuestionsHandler", "invalid item id", err, nil)
		return
	}

	questions, err := h.service.GetQuestions(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetQuestionsHandler", "error retrieving questions", err, map[string]any{"item_id": itemID})
		return
	}

	if questions == nil {
		questions = []model.Question{}
	}

	utils.JSONResponse(c, http.StatusOK, questions, "questions retrieved successfully")
	helpers.LogSuccess("GetQuestionsHandler", "questions retrieved successfully", map[string]any{
		"item_id": itemID,
		"count":   len(questions),
	})
}

// AnswerQuestionHandler handles POST /api/question/:question_id
func (h *QuestionHandler) AnswerQuestionHandler(c *gin.Context) {
	questionID, err := helpers.ParseIDParam(c, "question_id")
	if err != nil {
		helpers.RespondError(c, "AnswerQuestionHandler", "invalid question id", err, nil)
		return
	}

	var req helpers.AnswerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AnswerQuestionHandler", err)
		return
	}

	userID := helpers.CurrentUserID(c)
	if err := h.service.AnswerQuestion(c.Request.Context(), questionID, userID, req.AnswerText); err != nil {
		helpers.RespondError(c, "AnswerQuestionHandler", "failed to answer question", err, map[string]any{
			"question_id": questionID,
			"user_id":     userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "question answered successfully")
	helpers.LogSuccess("AnswerQuestionHandler", "question answered successfully", map[string]any{
		"question_id": questionID,
		"user_id":     userID,
	})
}
