package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypePersonal      AccountType = "Personal"
	AccountTypeTFSA          AccountType = "TFSA"
	AccountTypeRRSP          AccountType = "RRSP"
	AccountTypeFHSA          AccountType = "FHSA"
	AccountTypeMaternityFund AccountType = "Maternity Saving Fund"
	AccountTypeEmergencyFund AccountType = "Emergency Fund"
	AccountTypeOther         AccountType = "Other"
)

// AccountTypes is the order accounts are created and listed in
var AccountTypes = []AccountType{
	AccountTypePersonal,
	AccountTypeTFSA,
	AccountTypeRRSP,
	AccountTypeFHSA,
	AccountTypeMaternityFund,
	AccountTypeEmergencyFund,
	AccountTypeOther,
}

func ParseAccountType(s string) (AccountType, error) {
	for _, t := range AccountTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", &ValidationError{Message: "unknown account type " + s}
}

type Holding struct {
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	Shares        decimal.Decimal  `json:"shares"`
	PurchasePrice decimal.Decimal  `json:"purchasePrice"`
	Value         decimal.Decimal  `json:"value"`
	Date          string           `json:"date"`
	CurrentPrice  *decimal.Decimal `json:"currentPrice,omitempty"`
	CurrentValue  *decimal.Decimal `json:"currentValue,omitempty"`
	Change        decimal.Decimal  `json:"change"`
}

// MarketPrice is the last known price, or the cost basis price when no
// quote was ever applied
func (h Holding) MarketPrice() decimal.Decimal {
	if h.CurrentPrice != nil {
		return *h.CurrentPrice
	}
	return h.PurchasePrice
}

func (h Holding) MarketValue() decimal.Decimal {
	if h.CurrentValue != nil {
		return *h.CurrentValue
	}
	return h.Value
}

func (h Holding) DeepCopy() Holding {
	out := h
	if h.CurrentPrice != nil {
		p := *h.CurrentPrice
		out.CurrentPrice = &p
	}
	if h.CurrentValue != nil {
		v := *h.CurrentValue
		out.CurrentValue = &v
	}
	return out
}

type Account struct {
	Type                 AccountType       `json:"type"`
	DisplayName          string            `json:"displayName"`
	Holdings             []Holding         `json:"holdings"`
	Contributions        []decimal.Decimal `json:"contributions"`
	NextContribution     string            `json:"nextContribution"`
	LastContributionDate string            `json:"lastContributionDate"`
	News                 []json.RawMessage `json:"news"`
}

func NewAccount(t AccountType) Account {
	return Account{
		Type:          t,
		DisplayName:   string(t),
		Holdings:      []Holding{},
		Contributions: []decimal.Decimal{},
		News:          []json.RawMessage{},
	}
}

// DefaultAccounts is the account set a user gets on first load
func DefaultAccounts() []Account {
	out := make([]Account, 0, len(AccountTypes))
	for _, t := range AccountTypes {
		out = append(out, NewAccount(t))
	}
	return out
}

func (a Account) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return string(a.Type)
}

func (a Account) DeepCopy() Account {
	out := a
	out.Holdings = make([]Holding, 0, len(a.Holdings))
	for _, h := range a.Holdings {
		out.Holdings = append(out.Holdings, h.DeepCopy())
	}
	out.Contributions = append([]decimal.Decimal{}, a.Contributions...)
	out.News = make([]json.RawMessage, 0, len(a.News))
	for _, n := range a.News {
		out.News = append(out.News, append(json.RawMessage{}, n...))
	}
	return out
}

func (a Account) HoldingIndex(symbol string) int {
	for i, h := range a.Holdings {
		if h.Symbol == symbol {
			return i
		}
	}
	return -1
}

func DeepCopyAccounts(accounts []Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.DeepCopy())
	}
	return out
}

func FindAccount(accounts []Account, t AccountType) (int, error) {
	for i, a := range accounts {
		if a.Type == t {
			return i, nil
		}
	}
	return -1, &NotFoundError{Resource: "account", Key: string(t)}
}
