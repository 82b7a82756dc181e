package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Queries are written with '?' placeholders and rebound per driver.
const (
	insertUserQuery = `INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES (?, ?, ?, ?) RETURNING user_id`
	selectUserByIDQuery = `SELECT user_id, first_name, last_name, email, password_hash
		FROM users WHERE user_id = ?`
	selectUserByEmailQuery = `SELECT user_id, first_name, last_name, email, password_hash
		FROM users WHERE email = ?`

	insertSessionQuery = `INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`
	selectSessionQuery = `SELECT token, user_id, created_at, expires_at
		FROM sessions WHERE token = ?`
	deleteSessionQuery         = `DELETE FROM sessions WHERE token = ?`
	deleteExpiredSessionsQuery = `DELETE FROM sessions WHERE expires_at > 0 AND expires_at <= ?`

	insertItemQuery = `INSERT INTO items (creator_id, name, description, starting_bid, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING item_id`
	selectItemQuery = `SELECT item_id, creator_id, name, description, starting_bid, start_date, end_date
		FROM items WHERE item_id = ?`
	selectItemDetailsQuery = `SELECT i.item_id, i.creator_id, i.name, i.description, i.starting_bid,
		i.start_date, i.end_date, u.first_name, u.last_name
		FROM items i
		JOIN users u ON i.creator_id = u.user_id
		WHERE i.item_id = ?`
	searchItemsBaseQuery = `SELECT i.item_id, i.name, i.description, i.end_date, i.creator_id,
		u.first_name, u.last_name,
		COALESCE((SELECT MAX(b.amount) FROM bids b WHERE b.item_id = i.item_id), i.starting_bid) AS current_bid
		FROM items i
		JOIN users u ON i.creator_id = u.user_id`

	// The amount check and the insert share one statement so no other write can slip between them.
	insertBidIfHigherQuery = `INSERT INTO bids (item_id, user_id, amount, placed_at)
		SELECT CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS BIGINT), CAST(? AS BIGINT)
		WHERE CAST(? AS BIGINT) > COALESCE((SELECT MAX(amount) FROM bids WHERE item_id = ?), CAST(? AS BIGINT))
		RETURNING bid_id`
	selectBidHistoryQuery = `SELECT b.item_id, b.amount, b.placed_at, u.user_id, u.first_name, u.last_name
		FROM bids b
		JOIN users u ON b.user_id = u.user_id
		WHERE b.item_id = ?
		ORDER BY b.amount DESC, b.bid_id ASC`

	insertQuestionQuery = `INSERT INTO questions (item_id, asked_by, question)
		VALUES (?, ?, ?) RETURNING question_id`
	selectQuestionQuery = `SELECT question_id, item_id, asked_by, question, answer
		FROM questions WHERE question_id = ?`
	selectQuestionsByItemQuery = `SELECT question_id, item_id, asked_by, question, answer
		FROM questions WHERE item_id = ?
		ORDER BY question_id DESC`
	answerQuestionQuery = `UPDATE questions SET answer = ? WHERE question_id = ?`
)

// SQLRepo implements AuctionDB on top of sqlx for SQLite and PostgreSQL
type SQLRepo struct {
	db *sqlx.DB
}

// NewSQLRepo creates a repository over an open connection pool
func NewSQLRepo(db *sqlx.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

// Ping checks the database connection
func (r *SQLRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser inserts a user and returns its ID
func (r *SQLRepo) CreateUser(ctx context.Context, user model.User) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertUserQuery),
		user.FirstName, user.LastName, user.Email, user.PasswordHash).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create user %s: %w", user.Email, auctionerrors.ErrEmailInUse)
		}
		return 0, fmt.Errorf("create user %s: %w", user.Email, err)
	}
	return id, nil
}

// GetUserByID returns a user by ID
func (r *SQLRepo) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	var user model.User
	if err := r.db.GetContext(ctx, &user, r.db.Rebind(selectUserByIDQuery), userID); err != nil {
		return model.User{}, notFound(err, auctionerrors.ErrUserNotFound, "get user %d", userID)
	}
	return user, nil
}

// GetUserByEmail returns a user by email
func (r *SQLRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	if err := r.db.GetContext(ctx, &user, r.db.Rebind(selectUserByEmailQuery), email); err != nil {
		return model.User{}, notFound(err, auctionerrors.ErrUserNotFound, "get user by email %s", email)
	}
	return user, nil
}

// CreateSession inserts a session
func (r *SQLRepo) CreateSession(ctx context.Context, session model.Session) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertSessionQuery),
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session for user %d: %w", session.UserID, err)
	}
	return nil
}

// GetSession returns the session for a token
func (r *SQLRepo) GetSession(ctx context.Context, token string) (model.Session, error) {
	var session model.Session
	if err := r.db.GetContext(ctx, &session, r.db.Rebind(selectSessionQuery), token); err != nil {
		return model.Session{}, notFound(err, auctionerrors.ErrSessionNotFound, "get session")
	}
	return session, nil
}

// DeleteSession removes the session for a token
func (r *SQLRepo) DeleteSession(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(deleteSessionQuery), token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return requireAffected(res, auctionerrors.ErrSessionNotFound, "delete session")
}

// DeleteExpiredSessions removes sessions expired at now
func (r *SQLRepo) DeleteExpiredSessions(ctx context.Context, now int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(deleteExpiredSessionsQuery), now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}

// CreateItem inserts an item and returns its ID
func (r *SQLRepo) CreateItem(ctx context.Context, item model.Item) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertItemQuery),
		item.CreatorID, item.Name, item.Description, item.StartingBid, item.StartDate, item.EndDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create item for user %d: %w", item.CreatorID, err)
	}
	return id, nil
}

// GetItemByID returns an item by ID
func (r *SQLRepo) GetItemByID(ctx context.Context, itemID int64) (model.Item, error) {
	var item model.Item
	if err := r.db.GetContext(ctx, &item, r.db.Rebind(selectItemQuery), itemID); err != nil {
		return model.Item{}, notFound(err, auctionerrors.ErrItemNotFound, "get item %d", itemID)
	}
	return item, nil
}

// GetItemDetails returns an item joined with its seller's name
func (r *SQLRepo) GetItemDetails(ctx context.Context, itemID int64) (model.ItemDetails, error) {
	var details model.ItemDetails
	if err := r.db.GetContext(ctx, &details, r.db.Rebind(selectItemDetailsQuery), itemID); err != nil {
		return model.ItemDetails{}, notFound(err, auctionerrors.ErrItemNotFound, "get item details %d", itemID)
	}
	return details, nil
}

// SearchItems filters items by text and status relative to query.UserID
func (r *SQLRepo) SearchItems(ctx context.Context, query model.SearchQuery) ([]model.ItemSummary, error) {
	stmt, args := buildSearchQuery(query)
	results := []model.ItemSummary{}
	if err := r.db.SelectContext(ctx, &results, r.db.Rebind(stmt), args...); err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return results, nil
}

func buildSearchQuery(query model.SearchQuery) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if query.Text != "" {
		pattern := "%" + escapeLike(strings.ToLower(query.Text)) + "%"
		clauses = append(clauses, `(LOWER(i.name) LIKE ? ESCAPE '\' OR LOWER(i.description) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	switch query.Status {
	case model.StatusOpen:
		clauses = append(clauses, "i.creator_id = ? AND i.end_date >= ?")
		args = append(args, query.UserID, query.Now)
	case model.StatusArchive:
		clauses = append(clauses, "i.creator_id = ? AND i.end_date < ?")
		args = append(args, query.UserID, query.Now)
	case model.StatusBid:
		clauses = append(clauses, "EXISTS (SELECT 1 FROM bids ub WHERE ub.item_id = i.item_id AND ub.user_id = ?)")
		args = append(args, query.UserID)
	}

	var sb strings.Builder
	sb.WriteString(searchItemsBaseQuery)
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY i.item_id ASC")
	if query.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, query.Limit, query.Offset)
	}
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// RecordBidForItem inserts the bid if it beats both the current highest bid and floor
func (r *SQLRepo) RecordBidForItem(ctx context.Context, bid model.Bid, floor int64) (model.Bid, error) {
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertBidIfHigherQuery),
		bid.ItemID, bid.UserID, bid.Amount, bid.Timestamp,
		bid.Amount, bid.ItemID, floor,
	).Scan(&bid.BidID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("record bid for item %d: %w", bid.ItemID, auctionerrors.ErrBidTooLow)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("record bid for item %d: %w", bid.ItemID, err)
	}
	return bid, nil
}

// GetBidHistory returns all bids for an item, highest first
func (r *SQLRepo) GetBidHistory(ctx context.Context, itemID int64) ([]model.BidHistoryEntry, error) {
	history := []model.BidHistoryEntry{}
	if err := r.db.SelectContext(ctx, &history, r.db.Rebind(selectBidHistoryQuery), itemID); err != nil {
		return nil, fmt.Errorf("get bid history for item %d: %w", itemID, err)
	}
	return history, nil
}

// CreateQuestion inserts a question and returns its ID
func (r *SQLRepo) CreateQuestion(ctx context.Context, question model.Question) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertQuestionQuery),
		question.ItemID, question.AskedBy, question.Question).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create question for item %d: %w", question.ItemID, err)
	}
	return id, nil
}

// GetQuestionByID returns a question by ID
func (r *SQLRepo) GetQuestionByID(ctx context.Context, questionID int64) (model.Question, error) {
	var question model.Question
	if err := r.db.GetContext(ctx, &question, r.db.Rebind(selectQuestionQuery), questionID); err != nil {
		return model.Question{}, notFound(err, auctionerrors.ErrQuestionNotFound, "get question %d", questionID)
	}
	return question, nil
}

// GetQuestionsByItem returns an item's questions, newest first
func (r *SQLRepo) GetQuestionsByItem(ctx context.Context, itemID int64) ([]model.Question, error) {
	questions := []model.Question{}
	if err := r.db.SelectContext(ctx, &questions, r.db.Rebind(selectQuestionsByItemQuery), itemID); err != nil {
		return nil, fmt.Errorf("get questions for item %d: %w", itemID, err)
	}
	return questions, nil
}

// AnswerQuestion sets or replaces the answer to a question
func (r *SQLRepo) AnswerQuestion(ctx context.Context, questionID int64, answer string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(answerQuestionQuery), answer, questionID)
	if err != nil {
		return fmt.Errorf("answer question %d: %w", questionID, err)
	}
	return requireAffected(res, auctionerrors.ErrQuestionNotFound, "answer question %d", questionID)
}

func notFound(err, sentinel error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, sentinel)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func requireAffected(res sql.Result, sentinel error, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
