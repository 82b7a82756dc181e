package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/sessioncache"
	"auction-house/utils"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Password bounds are in bytes; bcrypt ignores input past 72 bytes.
	minPasswordLength = 6
	maxPasswordLength = 72
)

// Options configures an AccountService. Cache may be nil.
type Options struct {
	SessionTTL time.Duration
	CacheTTL   time.Duration
	BcryptCost int
	Cache      sessioncache.Cache
}

// AccountService handles registration, sessions and profiles
type AccountService struct {
	repo       repository.AuctionDB
	cache      sessioncache.Cache
	sessionTTL time.Duration
	cacheTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAccountService creates a new AccountService instance
func NewAccountService(repo repository.AuctionDB, opts Options) *AccountService {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AccountService{
		repo:       repo,
		cache:      opts.Cache,
		sessionTTL: opts.SessionTTL,
		cacheTTL:   opts.CacheTTL,
		bcryptCost: cost,
		now:        time.Now,
	}
}

// SetClock replaces the time source
func (s *AccountService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateUser registers a new account and returns its ID
func (s *AccountService) CreateUser(ctx context.Context, firstName, lastName, email, password string) (int64, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = normalizeEmail(email)

	if firstName == "" || lastName == "" || email == "" {
		return 0, fmt.Errorf("service: %w - missing name or email", auctionerrors.ErrInvalidInput)
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return 0, fmt.Errorf("service: %w", auctionerrors.ErrInvalidPassword)
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return 0, fmt.Errorf("service: %w", auctionerrors.ErrEmailInUse)
	}
	if !errors.Is(err, auctionerrors.ErrUserNotFound) {
		return 0, fmt.Errorf("service: failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("service: failed to hash password: %w", err)
	}

	userID, err := s.repo.CreateUser(ctx, models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return 0, fmt.Errorf("service: failed to create user: %w", err)
	}
	return userID, nil
}

// Login verifies credentials and opens a new session
func (s *AccountService) Login(ctx context.Context, email, password string) (models.Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, auctionerrors.ErrUserNotFound) {
		return models.Session{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("service: failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.Session{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidCredentials)
	}

	now := s.now().UTC()
	session := models.Session{
		Token:     utils.GenerateSessionToken(),
		UserID:    user.UserID,
		CreatedAt: now.Unix(),
	}
	if s.sessionTTL > 0 {
		session.ExpiresAt = now.Add(s.sessionTTL).Unix()
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("service: failed to create session: %w", err)
	}
	s.cacheSession(ctx, session)

	return session, nil
}

// Logout ends the session identified by token
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("service: %w", auctionerrors.ErrMissingToken)
	}

	// Delete the row before evicting so a concurrent Authenticate cannot re-cache the token.
	err := s.repo.DeleteSession(ctx, token)
	notFound := errors.Is(err, auctionerrors.ErrSessionNotFound)
	if err != nil && !notFound {
		return fmt.Errorf("service: failed to delete session: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, token); err != nil {
			return fmt.Errorf("service: failed to evict cached session: %w", err)
		}
	}

	if notFound {
		return fmt.Errorf("service: %w", auctionerrors.ErrUnauthorized)
	}
	return nil
}

// Authenticate resolves a session token to its user ID
func (s *AccountService) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, fmt.Errorf("service: %w", auctionerrors.ErrMissingToken)
	}

	if s.cache != nil {
		userID, found, err := s.cache.Get(ctx, token)
		if err != nil {
			utils.Warn("AccountService: session cache lookup failed", map[string]any{"error": err.Error()})
		} else if found {
			return userID, nil
		}
	}

	session, err := s.repo.GetSession(ctx, token)
	if errors.Is(err, auctionerrors.ErrSessionNotFound) {
		return 0, fmt.Errorf("service: %w", auctionerrors.ErrUnauthorized)
	}
	if err != nil {
		return 0, fmt.Errorf("service: failed to look up session: %w", err)
	}

	if session.Expired(s.now().Unix()) {
		if err := s.repo.DeleteSession(ctx, token); err != nil && !errors.Is(err, auctionerrors.ErrSessionNotFound) {
			utils.Warn("AccountService: failed to delete expired session", map[string]any{"error": err.Error()})
		}
		return 0, fmt.Errorf("service: %w - session expired", auctionerrors.ErrUnauthorized)
	}

	if s.cacheSession(ctx, session) {
		// a Logout may have removed the row after our read; don't leave its token cached
		if _, err := s.repo.GetSession(ctx, token); err != nil {
			if evictErr := s.cache.Delete(ctx, token); evictErr != nil {
				utils.Warn("AccountService: failed to evict cached session", map[string]any{"error": evictErr.Error()})
			}
			if errors.Is(err, auctionerrors.ErrSessionNotFound) {
				return 0, fmt.Errorf("service: %w", auctionerrors.ErrUnauthorized)
			}
			return 0, fmt.Errorf("service: failed to look up session: %w", err)
		}
	}
	return session.UserID, nil
}

// GetProfile returns a user's public details and activity. Email is included only when
// viewerID is the profile owner.
func (s *AccountService) GetProfile(ctx context.Context, userID, viewerID int64) (models.UserProfile, error) {
	if userID <= 0 {
		return models.UserProfile{}, fmt.Errorf("service: %w - invalid user ID", auctionerrors.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("service: failed to get user %d: %w", userID, err)
	}

	now := s.now().Unix()
	lists := make(map[models.SearchStatus][]models.ItemSummary, 3)
	for _, status := range []models.SearchStatus{models.StatusOpen, models.StatusBid, models.StatusArchive} {
		items, err := s.repo.SearchItems(ctx, models.SearchQuery{Status: status, UserID: userID, Now: now})
		if err != nil {
			return models.UserProfile{}, fmt.Errorf("service: failed to list %s items for user %d: %w", status, userID, err)
		}
		if items == nil {
			items = []models.ItemSummary{}
		}
		lists[status] = items
	}

	profile := models.UserProfile{
		UserID:        user.UserID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Selling:       lists[models.StatusOpen],
		BiddingOn:     lists[models.StatusBid],
		AuctionsEnded: lists[models.StatusArchive],
	}
	if viewerID == userID {
		profile.Email = user.Email
	}
	return profile, nil
}

// PurgeExpiredSessions deletes sessions that are past their expiry
func (s *AccountService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("service: failed to purge sessions: %w", err)
	}
	return n, nil
}

// cacheSession is best effort and reports whether the session was stored
func (s *AccountService) cacheSession(ctx context.Context, session models.Session) bool {
	if s.cache == nil {
		return false
	}
	ttl := s.cacheTTL
	if session.ExpiresAt > 0 {
		remaining := time.Unix(session.ExpiresAt, 0).Sub(s.now())
		if remaining <= 0 {
			return false
		}
		if ttl == 0 || remaining < ttl {
			ttl = remaining
		}
	}
	if err := s.cache.Set(ctx, session.Token, session.UserID, ttl); err != nil {
		utils.Warn("AccountService: failed to cache session", map[string]any{"user_id": session.UserID, "error": err.Error()})
		return false
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
