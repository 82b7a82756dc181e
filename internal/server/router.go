package server

import (
	"context"
	"net/http"
	"time"

	"auction-house/internal/metrics"
	handler "auction-house/services/auction/handler"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// AccountService is what the router needs from the account layer
type AccountService interface {
	handler.AccountServiceInterface
	Authenticator
}

// Pinger reports whether storage is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires services into the router. Limiter and Health may be nil.
type Dependencies struct {
	Accounts  AccountService
	Catalog   handler.CatalogServiceInterface
	Bidding   handler.BiddingServiceInterface
	Questions handler.QuestionServiceInterface
	Health    Pinger
	Limiter   *RateLimiter
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(metrics.GinMiddleware)
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware())
	}

	userHandler := handler.NewUserHandler(deps.Accounts)
	itemHandler := handler.NewItemHandler(deps.Catalog)
	biddingHandler := handler.NewBiddingHandler(deps.Bidding)
	questionHandler := handler.NewQuestionHandler(deps.Questions)

	requireAuth := AuthMiddleware(deps.Accounts)
	optionalAuth := OptionalAuthMiddleware(deps.Accounts)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Alive"})
	})
	router.GET("/health", healthHandler(deps.Health))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.POST("/users", userHandler.CreateUserHandler)
		api.GET("/users/:user_id", optionalAuth, userHandler.GetUserProfileHandler)
		api.POST("/login", userHandler.LoginHandler)
		api.POST("/logout", requireAuth, userHandler.LogoutHandler)

		api.GET("/search", optionalAuth, itemHandler.SearchItemsHandler)
	}

	items := api.Group("/item")
	{
		items.POST("", requireAuth, itemHandler.CreateItemHandler)
		items.GET("/:item_id", itemHandler.GetItemHandler)

		items.POST("/:item_id/bid", requireAuth, biddingHandler.RecordBidHandler)
		items.GET("/:item_id/bid", biddingHandler.GetBidHistoryHandler)

		items.POST("/:item_id/question", requireAuth, questionHandler.AskQuestionHandler)
		items.GET("/:item_id/question", questionHandler.GetQuestionsHandler)
	}

	questions := api.Group("/question")
	{
		questions.POST("/:question_id", requireAuth, questionHandler.AnswerQuestionHandler)
	}

	return router
}

func healthHandler(storage Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if storage == nil {
			utils.JSONResponse(c, http.StatusOK, gin.H{"storage": "unknown"}, "ok")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			utils.JSONError(c, http.StatusServiceUnavailable, err, "storage unavailable")
			utils.Error("healthHandler: storage ping failed", map[string]any{"error": err.Error()})
			return
		}
		utils.JSONResponse(c, http.StatusOK, gin.H{"storage": "ok"}, "ok")
	}
}
