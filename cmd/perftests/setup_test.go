package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	bidding "auction-house/internal/biddingService"
	"auction-house/internal/config"
	"auction-house/internal/database"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
)

const sellerEmail = "seller@bench.test"

// seedRepo creates one seller, numBidders bidders and numItems running items.
// It returns the bidder IDs and item IDs.
func seedRepo(tb testing.TB, repo repository.AuctionDB, numBidders, numItems int, startingBid int64) ([]int64, []int64) {
	tb.Helper()
	ctx := context.Background()

	sellerID, err := repo.CreateUser(ctx, model.User{FirstName: "Bench", LastName: "Seller", Email: sellerEmail, PasswordHash: "x"})
	if err != nil {
		tb.Fatalf("failed to create seller: %v", err)
	}

	bidders := make([]int64, 0, numBidders)
	for i := 0; i < numBidders; i++ {
		id, err := repo.CreateUser(ctx, model.User{
			FirstName:    "Bidder",
			LastName:     fmt.Sprintf("%d", i),
			Email:        fmt.Sprintf("bidder_%d@bench.test", i),
			PasswordHash: "x",
		})
		if err != nil {
			tb.Fatalf("failed to create bidder: %v", err)
		}
		bidders = append(bidders, id)
	}

	now := time.Now().Unix()
	items := make([]int64, 0, numItems)
	for i := 0; i < numItems; i++ {
		id, err := repo.CreateItem(ctx, model.Item{
			CreatorID:   sellerID,
			Name:        fmt.Sprintf("Bench item %d", i),
			Description: "Independent benchmark item",
			StartingBid: startingBid,
			StartDate:   now,
			EndDate:     now + int64(24*time.Hour/time.Second),
		})
		if err != nil {
			tb.Fatalf("failed to create item: %v", err)
		}
		items = append(items, id)
	}
	return bidders, items
}

// setupMemory creates an in-memory repository and bidding service with seeded data
func setupMemory(tb testing.TB, numBidders, numItems int) (*repository.MemoryRepo, *bidding.BiddingService, []int64, []int64) {
	tb.Helper()
	repo := repository.NewMemoryRepo()
	bidders, items := seedRepo(tb, repo, numBidders, numItems, 50)
	return repo, bidding.NewBiddingService(repo), bidders, items
}

// setupSQLite is setupMemory backed by an in-memory SQLite database
func setupSQLite(tb testing.TB, numBidders, numItems int) (*repository.SQLRepo, *bidding.BiddingService, []int64, []int64) {
	tb.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: database.DriverSQLite, DSN: "file::memory:?_foreign_keys=on"})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	tb.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		tb.Fatalf("failed to migrate sqlite: %v", err)
	}

	repo := repository.NewSQLRepo(db)
	bidders, items := seedRepo(tb, repo, numBidders, numItems, 50)
	return repo, bidding.NewBiddingService(repo), bidders, items
}
