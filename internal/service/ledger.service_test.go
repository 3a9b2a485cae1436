package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"growyourdough/internal/domain"
	"growyourdough/internal/repository"
	mock_repository "growyourdough/internal/repository/mocks"
	"growyourdough/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestLedgerService(profileRepository repository.UserProfileRepository, quoteRepository repository.QuoteRepository) *ledgerServiceHandler {
	h := NewLedgerService(profileRepository, quoteRepository, LedgerServiceConfig{
		NumWorkers: 3,
	}).(*ledgerServiceHandler)
	h.Now = func() time.Time {
		return util.NewDate(2024, 2, 20)
	}
	return h
}

func accountsOf(t *testing.T, fields repository.ProfileFields) []domain.Account {
	t.Helper()
	accounts, ok := fields["portfolioAccounts"].([]domain.Account)
	require.True(t, ok)
	return accounts
}

func seededProfile() *domain.UserProfile {
	accounts := domain.DefaultAccounts()
	accounts[1].Holdings = []domain.Holding{
		{Symbol: "AAPL", Name: "AAPL", Shares: dec("10"), PurchasePrice: dec("150"), Value: dec("1500"), Date: "2024-01-15"},
		{Symbol: "ZZZZ", Name: "ZZZZ", Shares: dec("2"), PurchasePrice: dec("10"), Value: dec("20"), Date: "2024-01-16", Change: dec("5")},
	}
	accounts[2].Holdings = []domain.Holding{
		{Symbol: "MSFT", Name: "MSFT", Shares: dec("1"), PurchasePrice: dec("250"), Value: dec("250"), Date: "2023-11-01"},
	}
	return &domain.UserProfile{UID: "user", PortfolioAccounts: accounts}
}

func Test_ledgerServiceHandler_Buy(t *testing.T) {
	ctx := context.Background()

	t.Run("first buy creates default accounts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		h := newTestLedgerService(profileRepository, quoteRepository)

		quoteRepository.EXPECT().GetPrice(gomock.Any(), "AAPL").Return(dec("165"), nil)
		profileRepository.EXPECT().Get(gomock.Any(), "user").Return(nil, repository.ErrProfileNotFound)

		persisted := [][]domain.Account{}
		profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, fields repository.ProfileFields) error {
				persisted = append(persisted, accountsOf(t, fields))
				return nil
			},
		).Times(2)

		holding, accounts, err := h.Buy(ctx, "user", domain.BuyCommand{
			AccountType: domain.AccountTypeTFSA,
			Symbol:      "aapl",
			Shares:      dec("10"),
			Price:       dec("150"),
			Date:        "2024-02-15",
		})
		require.NoError(t, err)

		require.True(t, holding.CurrentPrice.Equal(dec("165")))
		require.True(t, holding.Change.Equal(dec("10")))
		require.Len(t, accounts, len(domain.AccountTypes))
		require.Len(t, persisted, 2)
		require.Empty(t, persisted[0][1].Holdings)
		require.Equal(t, "", cmp.Diff(accounts, persisted[1]))
		require.Equal(t, "Mar 15, 2024", accounts[1].NextContribution)
	})

	t.Run("quote failure falls back to purchase price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		h := newTestLedgerService(profileRepository, quoteRepository)

		quoteRepository.EXPECT().GetPrice(gomock.Any(), "NEW").Return(decimal.Zero, repository.ErrQuoteNotFound)
		profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)
		profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).Return(nil)

		holding, _, err := h.Buy(ctx, "user", domain.BuyCommand{
			AccountType: domain.AccountTypeRRSP,
			Symbol:      "NEW",
			Shares:      dec("3"),
			Price:       dec("20"),
			Date:        "2024-02-01",
		})
		require.NoError(t, err)
		require.True(t, holding.CurrentPrice.Equal(dec("20")))
		require.True(t, holding.CurrentValue.Equal(dec("60")))
		require.True(t, holding.Change.IsZero())
	})

	t.Run("invalid input never reaches quotes or store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := newTestLedgerService(
			mock_repository.NewMockUserProfileRepository(ctrl),
			mock_repository.NewMockQuoteRepository(ctrl),
		)

		_, _, err := h.Buy(ctx, "user", domain.BuyCommand{
			AccountType: domain.AccountTypeTFSA,
			Symbol:      "AAPL",
			Shares:      dec("-1"),
			Price:       dec("150"),
			Date:        "2024-02-15",
		})
		var validationErr *domain.ValidationError
		require.True(t, errors.As(err, &validationErr))
	})

	t.Run("persistence failure keeps in-memory state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		h := newTestLedgerService(profileRepository, quoteRepository)

		quoteRepository.EXPECT().GetPrice(gomock.Any(), "AAPL").Return(dec("160"), nil)
		profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)
		profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).Return(fmt.Errorf("connection reset"))

		_, _, err := h.Buy(ctx, "user", domain.BuyCommand{
			AccountType: domain.AccountTypeTFSA,
			Symbol:      "AAPL",
			Shares:      dec("10"),
			Price:       dec("170"),
			Date:        "2024-02-15",
		})
		var persistenceErr *domain.PersistenceError
		require.True(t, errors.As(err, &persistenceErr))

		accounts, err := h.Accounts(ctx, "user")
		require.NoError(t, err)
		require.True(t, accounts[1].Holdings[0].Shares.Equal(dec("20")))
		require.Len(t, accounts[1].Contributions, 1)
	})
}

func Test_ledgerServiceHandler_Sell(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected sell does not persist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
		h := newTestLedgerService(profileRepository, mock_repository.NewMockQuoteRepository(ctrl))

		profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)

		_, err := h.Sell(ctx, "user", domain.SellCommand{AccountType: domain.AccountTypeTFSA, Symbol: "AAPL", Shares: dec("11")})
		var insufficient *domain.InsufficientSharesError
		require.True(t, errors.As(err, &insufficient))
	})

	t.Run("full sell persists removal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
		h := newTestLedgerService(profileRepository, mock_repository.NewMockQuoteRepository(ctrl))

		profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)
		profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, fields repository.ProfileFields) error {
				accounts := accountsOf(t, fields)
				require.Len(t, accounts[1].Holdings, 1)
				require.Equal(t, "ZZZZ", accounts[1].Holdings[0].Symbol)
				return nil
			},
		)

		_, err := h.Sell(ctx, "user", domain.SellCommand{AccountType: domain.AccountTypeTFSA, Symbol: "AAPL", Shares: dec("10")})
		require.NoError(t, err)
	})
}

func Test_ledgerServiceHandler_RenameAccount(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
	h := newTestLedgerService(profileRepository, mock_repository.NewMockQuoteRepository(ctrl))

	profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)
	profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).Return(nil).Times(1)

	// not Other, no write
	_, err := h.RenameAccount(ctx, "user", domain.AccountTypeTFSA, "Mine")
	require.NoError(t, err)

	accounts, err := h.RenameAccount(ctx, "user", domain.AccountTypeOther, " Travel ")
	require.NoError(t, err)
	require.Equal(t, "Travel", accounts[len(accounts)-1].DisplayName)
}

func Test_ledgerServiceHandler_RefreshQuotes(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
	quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
	h := newTestLedgerService(profileRepository, quoteRepository)

	profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)
	quoteRepository.EXPECT().GetPrice(gomock.Any(), "AAPL").Return(dec("165"), nil).Times(2)
	quoteRepository.EXPECT().GetPrice(gomock.Any(), "ZZZZ").Return(decimal.Zero, errors.New("symbol not found")).Times(2)
	quoteRepository.EXPECT().GetPrice(gomock.Any(), "MSFT").Return(dec("300"), nil).Times(2)
	profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).Return(nil).Times(2)

	accounts, err := h.RefreshQuotes(ctx, "user", false)
	require.NoError(t, err)

	aapl := accounts[1].Holdings[0]
	require.True(t, aapl.CurrentPrice.Equal(dec("165")))
	require.True(t, aapl.CurrentValue.Equal(dec("1650")))
	require.True(t, aapl.Change.Equal(dec("10")))

	zzzz := accounts[1].Holdings[1]
	require.True(t, zzzz.CurrentPrice.Equal(dec("10")))
	require.True(t, zzzz.CurrentValue.Equal(dec("20")))
	require.True(t, zzzz.Change.IsZero())

	msft := accounts[2].Holdings[0]
	require.True(t, msft.Change.Equal(dec("20")))

	// guarded, no further calls
	_, err = h.RefreshQuotes(ctx, "user", false)
	require.NoError(t, err)

	_, err = h.RefreshQuotes(ctx, "user", true)
	require.NoError(t, err)
}

func Test_ledgerServiceHandler_RefreshQuotes_rateLimited(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
	provider := mock_repository.NewMockQuoteRepository(ctrl)

	accounts := domain.DefaultAccounts()
	for i := 0; i < 20; i++ {
		symbol := fmt.Sprintf("S%02d", i)
		accounts[1].Holdings = append(accounts[1].Holdings, domain.Holding{
			Symbol: symbol, Name: symbol, Shares: dec("1"), PurchasePrice: dec("10"), Value: dec("10"), Date: "2024-01-15",
		})
	}
	profileRepository.EXPECT().Get(gomock.Any(), "user").Return(&domain.UserProfile{UID: "user", PortfolioAccounts: accounts}, nil)
	profileRepository.EXPECT().Set(gomock.Any(), "user", gomock.Any()).Return(nil)
	provider.EXPECT().GetPrice(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (decimal.Decimal, error) {
			return dec("12"), ctx.Err()
		},
	).Times(20)

	// one slot every 50ms, so the last quotes queue far longer than a
	// single call is allowed to take
	quoteRepository := repository.NewCachedQuoteRepository(provider, time.Minute, 1200, 100*time.Millisecond)
	h := newTestLedgerService(profileRepository, quoteRepository)

	refreshed, err := h.RefreshQuotes(ctx, "user", true)
	require.NoError(t, err)
	require.Len(t, refreshed[1].Holdings, 20)
	for _, holding := range refreshed[1].Holdings {
		require.True(t, holding.CurrentPrice.Equal(dec("12")), holding.Symbol)
		require.True(t, holding.Change.Equal(dec("20")), holding.Symbol)
	}
}

func Test_ledgerServiceHandler_sessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestLedgerService(
		mock_repository.NewMockUserProfileRepository(ctrl),
		mock_repository.NewMockQuoteRepository(ctrl),
	)
	now := util.NewDate(2024, 2, 20)
	h.Now = func() time.Time {
		return now
	}

	t.Run("held session survives its ttl", func(t *testing.T) {
		held := h.checkout("user")
		now = now.Add(2 * h.Config.SessionTtl)

		again := h.checkout("user")
		require.Same(t, held, again)

		h.checkin(held)
		h.checkin(again)
	})

	t.Run("idle session expires", func(t *testing.T) {
		idle := h.checkout("user")
		h.checkin(idle)
		now = now.Add(h.Config.SessionTtl + time.Second)

		fresh := h.checkout("user")
		require.NotSame(t, idle, fresh)
		h.checkin(fresh)
	})

	t.Run("idle session within ttl is reused", func(t *testing.T) {
		first := h.checkout("other")
		h.checkin(first)
		now = now.Add(h.Config.SessionTtl / 2)

		second := h.checkout("other")
		require.Same(t, first, second)
		h.checkin(second)
	})
}

func Test_ledgerServiceHandler_Reads(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	profileRepository := mock_repository.NewMockUserProfileRepository(ctrl)
	h := newTestLedgerService(profileRepository, mock_repository.NewMockQuoteRepository(ctrl))

	profileRepository.EXPECT().Get(gomock.Any(), "user").Return(seededProfile(), nil)

	series, err := h.Series(ctx, "user", domain.AccountTypeTFSA)
	require.NoError(t, err)
	require.Equal(t, []string{"Jan 24", "Feb 24"}, series.Labels)

	summary, err := h.Summary(ctx, "user", domain.AccountTypeTFSA)
	require.NoError(t, err)
	require.True(t, summary.TotalCost.Equal(dec("1520")))

	out, err := h.ExportHoldingsCSV(ctx, "user", domain.AccountTypeTFSA)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Equal(t, "symbol,shares,purchase_price,value,date,current_price,current_value,change_pct", lines[0])
	require.Equal(t, "AAPL,10,150.00,1500.00,2024-01-15,150.00,1500.00,0.00", lines[1])
	require.Len(t, lines, 3)

	_, err = h.Series(ctx, "user", domain.AccountType("Crypto"))
	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
}
