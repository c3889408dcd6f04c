package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/hatchery/internal/repository"
	"github.com/mamadbah2/hatchery/internal/repository/repotest"
)

// Runs only against a live server, e.g.
// MONGODB_TEST_URI=mongodb://localhost:27017 go test ./internal/repository/mongodb
func TestMongoDBRepository(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	repotest.Run(t, func(t *testing.T) repository.BatchRepository {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		dbName := "hatchery_test_" + uuid.NewString()[:8]
		repo, err := NewMongoDBRepository(ctx, uri, dbName)
		require.NoError(t, err)

		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = repo.client.Database(dbName).Drop(ctx)
			_ = repo.Close(ctx)
		})
		return repo
	})
}
