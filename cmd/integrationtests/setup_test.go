package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	account "auction-house/internal/accountService"
	bidding "auction-house/internal/biddingService"
	catalog "auction-house/internal/catalogService"
	questions "auction-house/internal/questionService"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// envelope mirrors the JSON body every endpoint responds with
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// testAPI is a full router over an in-memory repository with a controllable clock.
type testAPI struct {
	router *gin.Engine
	repo   *repository.MemoryRepo

	mu  sync.Mutex
	now time.Time
}

// SetupTestAPI initializes the router with in-memory storage for integration testing.
func SetupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &testAPI{
		repo: repository.NewMemoryRepo(),
		now:  time.Now(),
	}

	accounts := account.NewAccountService(api.repo, account.Options{
		SessionTTL: 3 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	catalogSvc := catalog.NewCatalogService(api.repo)
	biddingSvc := bidding.NewBiddingService(api.repo)
	questionSvc := questions.NewQuestionService(api.repo)

	accounts.SetClock(api.clock)
	catalogSvc.SetClock(api.clock)
	biddingSvc.SetClock(api.clock)

	api.router = server.SetupRouter(server.Dependencies{
		Accounts:  accounts,
		Catalog:   catalogSvc,
		Bidding:   biddingSvc,
		Questions: questionSvc,
		Health:    api.repo,
	})
	return api
}

func (a *testAPI) clock() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now
}

// Advance moves the clock used by every service forward by d.
func (a *testAPI) Advance(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = a.now.Add(d)
}

// Now returns the current test time in unix seconds.
func (a *testAPI) Now() int64 {
	return a.clock().Unix()
}

// Do executes a request against the router and decodes the response envelope.
// body may be nil, raw []byte, or any value to marshal as JSON.
func (a *testAPI) Do(t *testing.T, method, url, token string, body any) (envelope, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(helpers.AuthHeader, token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return env, w
}

// DecodeData unmarshals the data field of a successful response into out.
func DecodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// RegisterAndLogin creates a user and returns its ID and a session token.
func (a *testAPI) RegisterAndLogin(t *testing.T, first, email string) (int64, string) {
	t.Helper()

	env, w := a.Do(t, http.MethodPost, "/api/users", "", helpers.CreateUserRequest{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  "secret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	env, w = a.Do(t, http.MethodPost, "/api/login", "", helpers.LoginRequest{Email: email, Password: "secret-pass"})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var login helpers.LoginResponse
	DecodeData(t, env, &login)
	require.NotEmpty(t, login.SessionToken)
	return login.UserID, login.SessionToken
}

// ListItem creates an item ending after d and returns its ID.
func (a *testAPI) ListItem(t *testing.T, token, name string, startingBid int64, d time.Duration) int64 {
	t.Helper()

	env, w := a.Do(t, http.MethodPost, "/api/item", token, helpers.CreateItemRequest{
		Name:        name,
		Description: "integration listing for " + name,
		StartingBid: startingBid,
		EndDate:     a.Now() + int64(d/time.Second),
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)

	var created helpers.CreateItemResponse
	DecodeData(t, env, &created)
	return created.ItemID
}

func itemURL(itemID int64, suffix string) string {
	return "/api/item/" + strconv.FormatInt(itemID, 10) + suffix
}
