package domain

import (
	"strings"
	"time"

	"growyourdough/internal/util"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ChangePercent is the move of price relative to base, in percent,
// rounded to 2 decimals
func ChangePercent(price, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return price.Sub(base).Div(base).Mul(hundred).Round(2)
}

type BuyCommand struct {
	AccountType AccountType
	Symbol      string
	Shares      decimal.Decimal
	Price       decimal.Decimal
	Date        string

	// Quote is the market price fetched for Symbol before the reducer
	// runs. nil when the fetch failed.
	Quote *decimal.Decimal
}

func (c BuyCommand) Validate() (BuyCommand, time.Time, error) {
	c.Symbol = NormalizeSymbol(c.Symbol)
	if c.Symbol == "" || !c.Shares.IsPositive() || !c.Price.IsPositive() || strings.TrimSpace(c.Date) == "" {
		return c, time.Time{}, &ValidationError{Message: "Please enter valid symbol, shares, price, and date."}
	}
	date, err := util.ParseDate(strings.TrimSpace(c.Date))
	if err != nil {
		return c, time.Time{}, &ValidationError{Message: "date must be formatted as YYYY-MM-DD"}
	}
	c.Date = util.FormatDate(date)
	return c, date, nil
}

// Buy records a purchase into the target account and returns a new
// account set with the resulting holding. The input is never mutated.
func Buy(accounts []Account, cmd BuyCommand, now time.Time) ([]Account, *Holding, error) {
	cmd, date, err := cmd.Validate()
	if err != nil {
		return nil, nil, err
	}
	idx, err := FindAccount(accounts, cmd.AccountType)
	if err != nil {
		// shown next to the form like any other input problem
		return nil, nil, &ValidationError{Message: "Account not found."}
	}

	out := DeepCopyAccounts(accounts)
	account := &out[idx]

	account.Contributions = append(account.Contributions, cmd.Shares.Mul(cmd.Price))
	account.NextContribution = NextContribution(
		account.LastContributionDate,
		date,
		len(account.Contributions) == 1,
		now,
	)
	account.LastContributionDate = cmd.Date

	var holding Holding
	if i := account.HoldingIndex(cmd.Symbol); i >= 0 {
		holding = mergeHolding(account.Holdings[i], cmd, date)
		account.Holdings[i] = holding
	} else {
		holding = newHolding(cmd)
		account.Holdings = append(account.Holdings, holding)
	}

	result := holding.DeepCopy()
	return out, &result, nil
}

func newHolding(cmd BuyCommand) Holding {
	value := cmd.Shares.Mul(cmd.Price)
	h := Holding{
		Symbol:        cmd.Symbol,
		Name:          cmd.Symbol,
		Shares:        cmd.Shares,
		PurchasePrice: cmd.Price,
		Value:         value,
		Date:          cmd.Date,
		Change:        decimal.Zero,
	}
	return ApplyQuote(h, cmd.Quote)
}

func mergeHolding(existing Holding, cmd BuyCommand, date time.Time) Holding {
	totalShares := existing.Shares.Add(cmd.Shares)
	weightedPrice := existing.PurchasePrice.Mul(existing.Shares).
		Add(cmd.Price.Mul(cmd.Shares)).
		Div(totalShares)

	latestDate := cmd.Date
	if existingDate, err := util.ParseDate(existing.Date); err == nil && existingDate.After(date) {
		latestDate = existing.Date
	}

	merged := existing.DeepCopy()
	merged.Shares = totalShares
	merged.PurchasePrice = weightedPrice
	merged.Value = totalShares.Mul(weightedPrice)
	merged.Date = latestDate

	if cmd.Quote != nil {
		currentPrice := *cmd.Quote
		currentValue := currentPrice.Mul(totalShares)
		merged.CurrentPrice = &currentPrice
		merged.CurrentValue = &currentValue
		merged.Change = ChangePercent(currentPrice, weightedPrice)
	} else {
		currentPrice := existing.MarketPrice()
		currentValue := currentPrice.Mul(totalShares)
		merged.CurrentPrice = &currentPrice
		merged.CurrentValue = &currentValue
		merged.Change = decimal.Zero
	}
	return merged
}

// ApplyQuote refreshes the market fields of h. A nil quote resets them
// to the cost basis.
func ApplyQuote(h Holding, quote *decimal.Decimal) Holding {
	out := h.DeepCopy()
	if quote == nil {
		currentPrice := out.PurchasePrice
		currentValue := out.Value
		out.CurrentPrice = &currentPrice
		out.CurrentValue = &currentValue
		out.Change = decimal.Zero
		return out
	}

	currentPrice := *quote
	currentValue := out.Shares.Mul(currentPrice)
	out.CurrentPrice = &currentPrice
	out.CurrentValue = &currentValue
	out.Change = ChangePercent(currentPrice, out.PurchasePrice)
	return out
}

// Quotable reports whether a holding has enough data to be repriced
func (h Holding) Quotable() bool {
	return h.Symbol != "" && !h.PurchasePrice.IsZero() && !h.Shares.IsZero()
}

type SellCommand struct {
	AccountType AccountType
	Symbol      string
	Shares      decimal.Decimal
}

// Sell removes shares from a holding. Selling everything drops the
// holding. Cost basis per share is not re-averaged.
func Sell(accounts []Account, cmd SellCommand) ([]Account, error) {
	symbol := NormalizeSymbol(cmd.Symbol)
	if symbol == "" || !cmd.Shares.IsPositive() {
		return nil, &ValidationError{Message: "Please enter a valid symbol and number of shares."}
	}
	idx, err := FindAccount(accounts, cmd.AccountType)
	if err != nil {
		return nil, err
	}
	hIdx := accounts[idx].HoldingIndex(symbol)
	if hIdx < 0 {
		return nil, &NotFoundError{Resource: "holding", Key: symbol}
	}
	held := accounts[idx].Holdings[hIdx]
	if cmd.Shares.GreaterThan(held.Shares) {
		return nil, &InsufficientSharesError{
			Symbol:    symbol,
			Held:      held.Shares,
			Requested: cmd.Shares,
		}
	}

	out := DeepCopyAccounts(accounts)
	account := &out[idx]

	if cmd.Shares.Equal(held.Shares) {
		account.Holdings = append(account.Holdings[:hIdx], account.Holdings[hIdx+1:]...)
		return out, nil
	}

	h := &account.Holdings[hIdx]
	h.Shares = h.Shares.Sub(cmd.Shares)
	h.Value = h.Shares.Mul(h.PurchasePrice)
	currentValue := h.Shares.Mul(h.MarketPrice())
	h.CurrentValue = &currentValue

	return out, nil
}

// RenameAccount sets the display name of an Other account. The bool is
// false when nothing changed and nothing needs persisting.
func RenameAccount(accounts []Account, t AccountType, newName string) ([]Account, bool) {
	name := strings.TrimSpace(newName)
	if name == "" || t != AccountTypeOther {
		return accounts, false
	}
	idx, err := FindAccount(accounts, t)
	if err != nil {
		return accounts, false
	}

	out := DeepCopyAccounts(accounts)
	out[idx].DisplayName = name
	return out, true
}
