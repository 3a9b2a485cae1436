package domain

import (
	"testing"

	"growyourdough/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildSeries(t *testing.T) {
	t.Run("groups by month and lifts period before a buy", func(t *testing.T) {
		account := NewAccount(AccountTypeTFSA)
		account.Holdings = []Holding{
			{Symbol: "AAPL", Date: "2024-01-15", Value: dec("1000"), CurrentValue: util.DecimalPointer(dec("1100"))},
			{Symbol: "MSFT", Date: "2024-03-02", Value: dec("500"), CurrentValue: util.DecimalPointer(dec("450"))},
			{Symbol: "GOOG", Value: dec("999")},
		}

		series := BuildSeries(account, util.NewDate(2024, 3, 10))
		require.Equal(
			t,
			"",
			cmp.Diff(
				Series{
					Labels: []string{"Jan 24", "Mar 24"},
					Values: []decimal.Decimal{dec("2050"), dec("2050")},
				},
				series,
			),
		)
	})

	t.Run("sorts across years", func(t *testing.T) {
		account := NewAccount(AccountTypeTFSA)
		account.Holdings = []Holding{
			{Symbol: "A", Date: "2023-12-05", Value: dec("100"), CurrentValue: util.DecimalPointer(dec("120"))},
			{Symbol: "B", Date: "2024-01-03", Value: dec("200"), CurrentValue: util.DecimalPointer(dec("210"))},
		}

		series := BuildSeries(account, util.NewDate(2024, 2, 1))
		require.Equal(
			t,
			"",
			cmp.Diff(
				Series{
					Labels: []string{"Dec 23", "Jan 24", "Feb 24"},
					Values: []decimal.Decimal{dec("200"), dec("200"), dec("330")},
				},
				series,
			),
		)
	})

	t.Run("falls back to cost value without a quote", func(t *testing.T) {
		account := NewAccount(AccountTypeTFSA)
		account.Holdings = []Holding{
			{Symbol: "A", Date: "2024-01-05", Value: dec("100")},
		}

		series := BuildSeries(account, util.NewDate(2024, 2, 1))
		require.Equal(t, []string{"Jan 24", "Feb 24"}, series.Labels)
		require.True(t, series.Values[1].Equal(dec("100")))
	})

	t.Run("no earlier buy period ends below a later one", func(t *testing.T) {
		account := NewAccount(AccountTypeTFSA)
		account.Holdings = []Holding{
			{Symbol: "A", Date: "2024-01-05", Value: dec("1000"), CurrentValue: util.DecimalPointer(dec("900"))},
			{Symbol: "B", Date: "2024-02-05", Value: dec("1500"), CurrentValue: util.DecimalPointer(dec("1400"))},
		}

		series := BuildSeries(account, util.NewDate(2024, 3, 1))
		require.Len(t, series.Values, 3)
		require.True(t, series.Values[0].GreaterThanOrEqual(dec("1500")))
	})

	t.Run("idempotent", func(t *testing.T) {
		account := NewAccount(AccountTypeTFSA)
		account.Holdings = []Holding{
			{Symbol: "A", Date: "2023-06-05", Value: dec("10"), CurrentValue: util.DecimalPointer(dec("11"))},
			{Symbol: "B", Date: "2023-09-05", Value: dec("20"), CurrentValue: util.DecimalPointer(dec("19"))},
			{Symbol: "C", Date: "2024-01-05", Value: dec("30"), CurrentValue: util.DecimalPointer(dec("35"))},
		}
		now := util.NewDate(2024, 2, 1)

		require.Equal(t, "", cmp.Diff(BuildSeries(account, now), BuildSeries(account, now)))
	})

	t.Run("empty account", func(t *testing.T) {
		series := BuildSeries(NewAccount(AccountTypeTFSA), util.NewDate(2024, 2, 1))
		require.Empty(t, series.Labels)
		require.Empty(t, series.Values)
	})
}

func TestSummarize(t *testing.T) {
	account := NewAccount(AccountTypeRRSP)
	account.Holdings = []Holding{
		{Symbol: "A", Value: dec("1000"), CurrentValue: util.DecimalPointer(dec("1250.50"))},
		{Symbol: "B", Value: dec("500")},
	}
	account.Contributions = []decimal.Decimal{dec("1000"), dec("300"), dec("200")}
	account.NextContribution = ContributeASAP

	summary := Summarize(account)
	require.True(t, summary.TotalValue.Equal(dec("1750.50")))
	require.True(t, summary.TotalCost.Equal(dec("1500")))
	require.True(t, summary.Gain.Equal(dec("250.50")))
	require.True(t, summary.GainPercent.Equal(dec("16.7")))
	require.True(t, summary.TotalContributed.Equal(dec("1500")))
	require.True(t, summary.AverageContribution.Equal(dec("500")))
	require.Equal(t, "$1,750.50", summary.TotalValueDisplay)
	require.Equal(t, ContributeASAP, summary.NextContribution)
	require.Equal(t, "RRSP", summary.DisplayName)

	t.Run("empty account", func(t *testing.T) {
		summary := Summarize(NewAccount(AccountTypeOther))
		require.True(t, summary.TotalValue.IsZero())
		require.True(t, summary.GainPercent.IsZero())
		require.True(t, summary.AverageContribution.IsZero())
		require.Equal(t, "$0.00", summary.TotalValueDisplay)
	})
}
