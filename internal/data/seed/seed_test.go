package seed

import (
	"context"
	"testing"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_EmptyDatabase(t *testing.T) {
	store := memory.NewStore()
	repo := store.Repository()
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, zap.NewNop()))

	demo1, err := repo.User.FindByTelegramID(ctx, "demo1")
	require.NoError(t, err)
	require.NotNil(t, demo1)
	assert.Equal(t, "+79998887766", *demo1.Phone)
	assert.Equal(t, int64(200), demo1.Balance)

	demo2, err := repo.User.FindByTelegramID(ctx, "demo2")
	require.NoError(t, err)
	require.NotNil(t, demo2)
	assert.Equal(t, int64(350), demo2.Balance)

	history, err := repo.Purchase.FindByUserID(ctx, demo2.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "OsCafe", *history[0].Partner)

	services, err := repo.Service.FindActive(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 2)

	credits, err := repo.Bonus.FindByUserID(ctx, demo1.ID)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	assert.Equal(t, "seed", credits[0].CreatedBy)
}

func TestRun_IsIdempotent(t *testing.T) {
	store := memory.NewStore()
	repo := store.Repository()
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, zap.NewNop()))
	require.NoError(t, Run(ctx, repo, zap.NewNop()))

	users, _ := repo.User.CountAll(ctx)
	services, _ := repo.Service.CountAll(ctx)
	purchases, _ := repo.Purchase.CountAll(ctx)
	assert.Equal(t, int64(2), users)
	assert.Equal(t, int64(2), services)
	assert.Equal(t, int64(1), purchases)
}

func TestRun_LeavesPopulatedTablesAlone(t *testing.T) {
	store := memory.NewStore()
	tgID := "real"
	store.PutUser(&entity.User{TelegramID: &tgID, Balance: 10})
	repo := store.Repository()
	ctx := context.Background()

	require.NoError(t, Run(ctx, repo, zap.NewNop()))

	users, _ := repo.User.CountAll(ctx)
	assert.Equal(t, int64(1), users)

	// services are still seeded but demo2 is missing, so no purchase
	services, _ := repo.Service.CountAll(ctx)
	purchases, _ := repo.Purchase.CountAll(ctx)
	assert.Equal(t, int64(2), services)
	assert.Equal(t, int64(0), purchases)
}
