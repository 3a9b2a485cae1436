package domain

import (
	"sort"
	"strings"
	"time"

	"growyourdough/internal/util"

	"github.com/shopspring/decimal"
)

const SeriesPeriodLayout = "Jan 06"

type Series struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

type seriesPoint struct {
	value decimal.Decimal
	isBuy bool
}

// BuildSeries derives a monthly value series for the account. Each dated
// holding contributes its cost basis at its purchase month and its market
// value at the current month.
func BuildSeries(account Account, now time.Time) Series {
	nowKey := now.Format(SeriesPeriodLayout)

	keys := []string{}
	periods := map[string]*seriesPoint{}
	add := func(key string, value decimal.Decimal, isBuy bool) {
		p, ok := periods[key]
		if !ok {
			keys = append(keys, key)
			periods[key] = &seriesPoint{value: value, isBuy: isBuy}
			return
		}
		p.value = p.value.Add(value)
		p.isBuy = p.isBuy || isBuy
	}

	for _, h := range account.Holdings {
		if h.Date == "" {
			continue
		}
		date, err := util.ParseDate(h.Date)
		if err != nil {
			continue
		}
		add(date.Format(SeriesPeriodLayout), h.Value, true)
		add(nowKey, h.MarketValue(), false)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return periodStart(keys[i]).Before(periodStart(keys[j]))
	})

	values := make([]decimal.Decimal, 0, len(keys))
	for i, key := range keys {
		p := periods[key]
		if i > 0 && p.isBuy && p.value.GreaterThan(values[i-1]) {
			values[i-1] = p.value
		}
		values = append(values, p.value)
	}

	return Series{
		Labels: keys,
		Values: values,
	}
}

// periodStart rebuilds day 1 of a "Jan 06" key
func periodStart(key string) time.Time {
	parts := strings.Fields(key)
	if len(parts) != 2 {
		return time.Time{}
	}
	t, err := time.Parse("Jan 2, 2006", parts[0]+" 1, 20"+parts[1])
	if err != nil {
		return time.Time{}
	}
	return t
}
