package repository

import (
	"context"
	"errors"
	"testing"

	"growyourdough/internal/domain"
	"growyourdough/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProfileRepository(t *testing.T, repo UserProfileRepository) {
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := repo.Get(ctx, userID)
	require.True(t, errors.Is(err, ErrProfileNotFound))

	err = repo.Set(ctx, userID, ProfileFields{
		"uid":                 userID,
		"displayName":         "Jane Doe",
		"onboardingCompleted": true,
		"onboardingData": domain.OnboardingData{
			FirstName: "Jane",
			LifeStage: "Student",
		},
	})
	require.NoError(t, err)

	accounts, _, err := domain.Buy(domain.DefaultAccounts(), domain.BuyCommand{
		AccountType: domain.AccountTypeTFSA,
		Symbol:      "AAPL",
		Shares:      dec("10"),
		Price:       dec("150"),
		Date:        "2024-01-15",
	}, util.NewDate(2024, 1, 20))
	require.NoError(t, err)

	// a merge write must not drop unrelated fields
	err = repo.Set(ctx, userID, ProfileFields{
		"portfolioAccounts": accounts,
	})
	require.NoError(t, err)

	profile, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", profile.DisplayName)
	require.True(t, profile.OnboardingCompleted)
	require.Equal(t, "Jane", profile.OnboardingData.FirstName)
	require.Equal(t, "", cmp.Diff(accounts, profile.PortfolioAccounts))
}

func TestMemoryUserProfileRepository(t *testing.T) {
	testProfileRepository(t, NewMemoryUserProfileRepository())
}

func TestUserProfileRepository(t *testing.T) {
	db, err := util.NewTestDb()
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		t.Skip("test db unavailable")
	}
	defer db.Close()

	testProfileRepository(t, NewUserProfileRepository(db))
}
