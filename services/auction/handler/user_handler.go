package handler

import (
	"context"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_services.go -package=handler auction-house/services/auction/handler AccountServiceInterface,CatalogServiceInterface,BiddingServiceInterface,QuestionServiceInterface

type AccountServiceInterface interface {
	CreateUser(ctx context.Context, firstName, lastName, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID, viewerID int64) (model.UserProfile, error)
}

type UserHandler struct {
	service AccountServiceInterface
}

func NewUserHandler(service AccountServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserHandler handles POST /api/users
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	var req helpers.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateUserHandler", err)
		return
	}

	userID, err := h.service.CreateUser(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "CreateUserHandler", "failed to create user", err, map[string]any{"email": req.Email})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.CreateUserResponse{UserID: userID}, "user created successfully")
	helpers.LogSuccess("CreateUserHandler", "user created successfully", map[string]any{"user_id": userID})
}

// LoginHandler handles POST /api/login
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		helpers.RespondError(c, "LoginHandler", "login failed", err, map[string]any{"email": req.Email})
		return
	}

	resp := helpers.LoginResponse{UserID: session.UserID, SessionToken: session.Token}
	utils.JSONResponse(c, http.StatusOK, resp, "logged in successfully")
	helpers.LogSuccess("LoginHandler", "logged in successfully", map[string]any{"user_id": session.UserID})
}

// LogoutHandler handles POST /api/logout
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	token := c.GetString(helpers.ContextTokenKey)
	if token == "" {
		token = c.GetHeader(helpers.AuthHeader)
	}

	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		helpers.RespondError(c, "LogoutHandler", "logout failed", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "logged out successfully")
	helpers.LogSuccess("LogoutHandler", "logged out successfully", map[string]any{"user_id": helpers.CurrentUserID(c)})
}

// GetUserProfileHandler handles GET /api/users/:user_id
func (h *UserHandler) GetUserProfileHandler(c *gin.Context) {
	userID, err := helpers.ParseIDParam(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "GetUserProfileHandler", "invalid user id", err, nil)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID, helpers.CurrentUserID(c))
	if err != nil {
		helpers.RespondError(c, "GetUserProfileHandler", "failed to get profile", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, profile, "user retrieved successfully")
	helpers.LogSuccess("GetUserProfileHandler", "user retrieved successfully", map[string]any{
		"user_id":        userID,
		"selling":        len(profile.Selling),
		"bidding_on":     len(profile.BiddingOn),
		"auctions_ended": len(profile.AuctionsEnded),
	})
}
