package repository

import (
	"context"
	"testing"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/stretchr/testify/require"
)

const suiteNow int64 = 1_800_000_000

// runAuctionDBSuite exercises behaviour every AuctionDB implementation must share
func runAuctionDBSuite(t *testing.T, newRepo func(t *testing.T) AuctionDB) {
	ctx := context.Background()

	seedUser := func(t *testing.T, repo AuctionDB, first, email string) int64 {
		t.Helper()
		id, err := repo.CreateUser(ctx, model.User{FirstName: first, LastName: "Tester", Email: email, PasswordHash: "hash"})
		require.NoError(t, err)
		return id
	}
	seedItem := func(t *testing.T, repo AuctionDB, creator int64, name, desc string, startingBid, endDate int64) int64 {
		t.Helper()
		id, err := repo.CreateItem(ctx, model.Item{
			CreatorID:   creator,
			Name:        name,
			Description: desc,
			StartingBid: startingBid,
			StartDate:   suiteNow - 100,
			EndDate:     endDate,
		})
		require.NoError(t, err)
		return id
	}

	t.Run("users", func(t *testing.T) {
		repo := newRepo(t)
		id := seedUser(t, repo, "Ada", "ada@example.com")
		require.Positive(t, id)

		_, err := repo.CreateUser(ctx, model.User{FirstName: "Other", LastName: "Ada", Email: "ada@example.com", PasswordHash: "x"})
		require.ErrorIs(t, err, auctionerrors.ErrEmailInUse)

		byID, err := repo.GetUserByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Ada", byID.FirstName)
		require.Equal(t, "hash", byID.PasswordHash)

		byEmail, err := repo.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, id, byEmail.UserID)

		_, err = repo.GetUserByID(ctx, id+100)
		require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
		_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
	})

	t.Run("sessions", func(t *testing.T) {
		repo := newRepo(t)
		userID := seedUser(t, repo, "Sam", "sam@example.com")

		sessions := []model.Session{
			{Token: "forever", UserID: userID, CreatedAt: suiteNow, ExpiresAt: 0},
			{Token: "expired", UserID: userID, CreatedAt: suiteNow - 10, ExpiresAt: suiteNow - 1},
			{Token: "live", UserID: userID, CreatedAt: suiteNow, ExpiresAt: suiteNow + 60},
		}
		for _, s := range sessions {
			require.NoError(t, repo.CreateSession(ctx, s))
		}

		got, err := repo.GetSession(ctx, "live")
		require.NoError(t, err)
		require.Equal(t, sessions[2], got)

		removed, err := repo.DeleteExpiredSessions(ctx, suiteNow)
		require.NoError(t, err)
		require.Equal(t, int64(1), removed)

		_, err = repo.GetSession(ctx, "expired")
		require.ErrorIs(t, err, auctionerrors.ErrSessionNotFound)
		_, err = repo.GetSession(ctx, "forever")
		require.NoError(t, err)

		require.NoError(t, repo.DeleteSession(ctx, "live"))
		require.ErrorIs(t, repo.DeleteSession(ctx, "live"), auctionerrors.ErrSessionNotFound)
	})

	t.Run("items", func(t *testing.T) {
		repo := newRepo(t)
		seller := seedUser(t, repo, "Sal", "sal@example.com")
		itemID := seedItem(t, repo, seller, "Lamp", "Brass lamp", 25, suiteNow+3600)

		item, err := repo.GetItemByID(ctx, itemID)
		require.NoError(t, err)
		require.Equal(t, model.Item{
			ItemID:      itemID,
			CreatorID:   seller,
			Name:        "Lamp",
			Description: "Brass lamp",
			StartingBid: 25,
			StartDate:   suiteNow - 100,
			EndDate:     suiteNow + 3600,
		}, item)

		details, err := repo.GetItemDetails(ctx, itemID)
		require.NoError(t, err)
		require.Equal(t, item, details.Item)
		require.Equal(t, "Sal", details.FirstName)
		require.Equal(t, "Tester", details.LastName)

		_, err = repo.GetItemByID(ctx, itemID+1)
		require.ErrorIs(t, err, auctionerrors.ErrItemNotFound)
		_, err = repo.GetItemDetails(ctx, itemID+1)
		require.ErrorIs(t, err, auctionerrors.ErrItemNotFound)
	})

	t.Run("bids", func(t *testing.T) {
		repo := newRepo(t)
		seller := seedUser(t, repo, "Sal", "sal@example.com")
		alice := seedUser(t, repo, "Alice", "alice@example.com")
		bob := seedUser(t, repo, "Bob", "bob@example.com")
		itemID := seedItem(t, repo, seller, "Clock", "", 50, suiteNow+3600)

		history, err := repo.GetBidHistory(ctx, itemID)
		require.NoError(t, err)
		require.NotNil(t, history)
		require.Empty(t, history)

		_, err = repo.RecordBidForItem(ctx, model.Bid{ItemID: itemID, UserID: alice, Amount: 50, Timestamp: suiteNow}, 50)
		require.ErrorIs(t, err, auctionerrors.ErrBidTooLow, "bid equal to the starting bid is rejected")

		first, err := repo.RecordBidForItem(ctx, model.Bid{ItemID: itemID, UserID: alice, Amount: 60, Timestamp: suiteNow}, 50)
		require.NoError(t, err)
		require.Positive(t, first.BidID)
		require.Equal(t, int64(60), first.Amount)

		_, err = repo.RecordBidForItem(ctx, model.Bid{ItemID: itemID, UserID: bob, Amount: 60, Timestamp: suiteNow + 1}, 50)
		require.ErrorIs(t, err, auctionerrors.ErrBidTooLow, "bid equal to the highest bid is rejected")

		second, err := repo.RecordBidForItem(ctx, model.Bid{ItemID: itemID, UserID: bob, Amount: 75, Timestamp: suiteNow + 2}, 50)
		require.NoError(t, err)
		require.Greater(t, second.BidID, first.BidID)

		history, err = repo.GetBidHistory(ctx, itemID)
		require.NoError(t, err)
		require.Equal(t, []model.BidHistoryEntry{
			{ItemID: itemID, Amount: 75, Timestamp: suiteNow + 2, UserID: bob, FirstName: "Bob", LastName: "Tester"},
			{ItemID: itemID, Amount: 60, Timestamp: suiteNow, UserID: alice, FirstName: "Alice", LastName: "Tester"},
		}, history)
	})

	t.Run("search", func(t *testing.T) {
		repo := newRepo(t)
		seller := seedUser(t, repo, "Sal", "sal@example.com")
		buyer := seedUser(t, repo, "Bea", "bea@example.com")

		lamp := seedItem(t, repo, seller, "Desk Lamp", "brass", 10, suiteNow+3600)
		vase := seedItem(t, repo, seller, "Vase", "Blue LAMP-shaped vase", 20, suiteNow-1)
		chair := seedItem(t, repo, buyer, "Chair", "oak 50%_off", 30, suiteNow+3600)

		_, err := repo.RecordBidForItem(ctx, model.Bid{ItemID: lamp, UserID: buyer, Amount: 15, Timestamp: suiteNow}, 10)
		require.NoError(t, err)

		ids := func(items []model.ItemSummary) []int64 {
			out := make([]int64, 0, len(items))
			for _, it := range items {
				out = append(out, it.ItemID)
			}
			return out
		}

		tests := []struct {
			name  string
			query model.SearchQuery
			want  []int64
		}{
			{name: "all", query: model.SearchQuery{Now: suiteNow}, want: []int64{lamp, vase, chair}},
			{name: "text_matches_name_and_description", query: model.SearchQuery{Text: "lamp", Now: suiteNow}, want: []int64{lamp, vase}},
			{name: "like_wildcards_are_literal", query: model.SearchQuery{Text: "50%_", Now: suiteNow}, want: []int64{chair}},
			{name: "percent_alone_matches_only_literal", query: model.SearchQuery{Text: "%", Now: suiteNow}, want: []int64{chair}},
			{name: "open", query: model.SearchQuery{Status: model.StatusOpen, UserID: seller, Now: suiteNow}, want: []int64{lamp}},
			{name: "archive", query: model.SearchQuery{Status: model.StatusArchive, UserID: seller, Now: suiteNow}, want: []int64{vase}},
			{name: "bid", query: model.SearchQuery{Status: model.StatusBid, UserID: buyer, Now: suiteNow}, want: []int64{lamp}},
			{name: "bid_none", query: model.SearchQuery{Status: model.StatusBid, UserID: seller, Now: suiteNow}, want: []int64{}},
			{name: "limit", query: model.SearchQuery{Limit: 2, Now: suiteNow}, want: []int64{lamp, vase}},
			{name: "limit_offset", query: model.SearchQuery{Limit: 2, Offset: 2, Now: suiteNow}, want: []int64{chair}},
			{name: "offset_past_end", query: model.SearchQuery{Limit: 2, Offset: 10, Now: suiteNow}, want: []int64{}},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				got, err := repo.SearchItems(ctx, tc.query)
				require.NoError(t, err)
				require.NotNil(t, got)
				require.Equal(t, tc.want, ids(got))
			})
		}

		got, err := repo.SearchItems(ctx, model.SearchQuery{Text: "desk", Now: suiteNow})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, model.ItemSummary{
			ItemID:      lamp,
			Name:        "Desk Lamp",
			Description: "brass",
			EndDate:     suiteNow + 3600,
			CreatorID:   seller,
			FirstName:   "Sal",
			LastName:    "Tester",
			CurrentBid:  15,
		}, got[0])
	})

	t.Run("questions", func(t *testing.T) {
		repo := newRepo(t)
		seller := seedUser(t, repo, "Sal", "sal@example.com")
		asker := seedUser(t, repo, "Ash", "ash@example.com")
		itemID := seedItem(t, repo, seller, "Rug", "wool", 5, suiteNow+3600)

		empty, err := repo.GetQuestionsByItem(ctx, itemID)
		require.NoError(t, err)
		require.NotNil(t, empty)
		require.Empty(t, empty)

		q1, err := repo.CreateQuestion(ctx, model.Question{ItemID: itemID, AskedBy: asker, Question: "Size?"})
		require.NoError(t, err)
		q2, err := repo.CreateQuestion(ctx, model.Question{ItemID: itemID, AskedBy: asker, Question: "Color?"})
		require.NoError(t, err)

		got, err := repo.GetQuestionByID(ctx, q1)
		require.NoError(t, err)
		require.Equal(t, "Size?", got.Question)
		require.Nil(t, got.Answer)

		require.NoError(t, repo.AnswerQuestion(ctx, q1, "2x3m"))
		require.NoError(t, repo.AnswerQuestion(ctx, q1, "2x3 metres"))
		require.ErrorIs(t, repo.AnswerQuestion(ctx, q2+10, "?"), auctionerrors.ErrQuestionNotFound)

		list, err := repo.GetQuestionsByItem(ctx, itemID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, q2, list[0].QuestionID, "newest first")
		require.Nil(t, list[0].Answer)
		require.NotNil(t, list[1].Answer)
		require.Equal(t, "2x3 metres", *list[1].Answer)

		_, err = repo.GetQuestionByID(ctx, q2+10)
		require.ErrorIs(t, err, auctionerrors.ErrQuestionNotFound)
	})
}
