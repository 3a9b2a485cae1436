package main

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	gydcmd "growyourdough/cmd"
	"growyourdough/internal/domain"
	"growyourdough/internal/repository"
	mock_repository "growyourdough/internal/repository/mocks"
	"growyourdough/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCliLedgerService(t *testing.T) service.LedgerService {
	t.Helper()
	ledgerService := service.NewLedgerService(
		repository.NewMemoryUserProfileRepository(),
		gydcmd.NewStaticQuoteRepository(map[string]decimal.Decimal{
			"AAPL": decimal.NewFromInt(165),
		}),
		service.LedgerServiceConfig{},
	)

	_, _, err := ledgerService.Buy(context.Background(), "cli-user", domain.BuyCommand{
		AccountType: domain.AccountTypeTFSA,
		Symbol:      "AAPL",
		Shares:      decimal.NewFromInt(10),
		Price:       decimal.NewFromInt(150),
		Date:        "2024-01-15",
	})
	require.NoError(t, err)
	return ledgerService
}

func Test_runRefresh(t *testing.T) {
	ledgerService := newCliLedgerService(t)

	out := &bytes.Buffer{}
	err := runRefresh(context.Background(), out, ledgerService, "cli-user", true)
	require.NoError(t, err)

	require.Contains(t, out.String(), "TFSA")
	require.Contains(t, out.String(), "AAPL")
	require.Contains(t, out.String(), "1650.00")
	require.Contains(t, out.String(), "10.00%")
}

func Test_runSeries(t *testing.T) {
	ledgerService := newCliLedgerService(t)

	out := &bytes.Buffer{}
	err := runSeries(context.Background(), out, ledgerService, "cli-user", domain.AccountTypeTFSA)
	require.NoError(t, err)

	require.Contains(t, out.String(), "TFSA Performance")
	require.Contains(t, out.String(), "Jan 24")
}

func Test_runChat(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisorRepository := mock_repository.NewMockAdvisorRepository(ctrl)
	advisorRepository.EXPECT().
		Send(gomock.Any(), gomock.Any(), "what is an fhsa", gomock.Any()).
		Return("An FHSA helps you save for a first home.", nil)

	out := &bytes.Buffer{}
	err := runChat(context.Background(), out, service.NewAdvisorService(advisorRepository), "what is an fhsa")
	require.NoError(t, err)
	require.Contains(t, out.String(), "first home")
}

func Test_seriesCmd_help(t *testing.T) {
	require.Equal(t, "Print the monthly value series of one account", seriesCmd.Short)
}

func Test_runPruneRequests(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	t.Run("deletes before the cutoff", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		apiRequestRepository := mock_repository.NewMockApiRequestRepository(ctrl)
		db := &sql.DB{}
		apiRequestRepository.EXPECT().
			DeleteBefore(gomock.Any(), db, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)).
			Return(int64(42), nil)

		out := &bytes.Buffer{}
		err := runPruneRequests(context.Background(), out, apiRequestRepository, db, 30, now)
		require.NoError(t, err)
		require.Equal(t, "deleted 42 api requests before 2024-03-01T12:00:00Z", strings.TrimSpace(out.String()))
	})

	t.Run("rejects non positive days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		apiRequestRepository := mock_repository.NewMockApiRequestRepository(ctrl)

		err := runPruneRequests(context.Background(), &bytes.Buffer{}, apiRequestRepository, nil, 0, now)
		require.Error(t, err)
	})
}
