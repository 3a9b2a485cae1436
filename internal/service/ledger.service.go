package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"growyourdough/internal/domain"
	"growyourdough/internal/logger"
	"growyourdough/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// LedgerService owns the in-memory accounts of every active user. All
// mutations of one user run under that user's session lock and are
// mirrored to the profile store before returning.
type LedgerService interface {
	Accounts(ctx context.Context, userID string) ([]domain.Account, error)
	RefreshQuotes(ctx context.Context, userID string, force bool) ([]domain.Account, error)
	Buy(ctx context.Context, userID string, cmd domain.BuyCommand) (*domain.Holding, []domain.Account, error)
	Sell(ctx context.Context, userID string, cmd domain.SellCommand) ([]domain.Account, error)
	RenameAccount(ctx context.Context, userID string, accountType domain.AccountType, newName string) ([]domain.Account, error)
	Series(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Series, error)
	Summary(ctx context.Context, userID string, accountType domain.AccountType) (*domain.AccountSummary, error)
	ExportHoldingsCSV(ctx context.Context, userID string, accountType domain.AccountType) ([]byte, error)
}

// LedgerServiceConfig has no quote timeout. Per call deadlines belong to
// the quote repository so that time spent queueing for a rate limit slot
// never counts against a call.
type LedgerServiceConfig struct {
	// SessionTtl is how long an idle session survives
	SessionTtl time.Duration
	// NumWorkers bounds concurrent quote calls during a refresh
	NumWorkers int
}

type ledgerSession struct {
	mu            sync.Mutex
	loaded        bool
	accounts      []domain.Account
	pricesFetched bool

	// guarded by ledgerServiceHandler.sessionsMu
	holders  int
	lastUsed time.Time
}

type ledgerServiceHandler struct {
	ProfileRepository repository.UserProfileRepository
	QuoteRepository   repository.QuoteRepository
	Config            LedgerServiceConfig
	Now               func() time.Time

	sessionsMu sync.Mutex
	sessions   map[string]*ledgerSession
}

func NewLedgerService(
	profileRepository repository.UserProfileRepository,
	quoteRepository repository.QuoteRepository,
	config LedgerServiceConfig,
) LedgerService {
	if config.SessionTtl == 0 {
		config.SessionTtl = 30 * time.Minute
	}
	if config.NumWorkers == 0 {
		config.NumWorkers = 10
	}

	return &ledgerServiceHandler{
		ProfileRepository: profileRepository,
		QuoteRepository:   quoteRepository,
		Config:            config,
		Now:               time.Now,
		sessions:          map[string]*ledgerSession{},
	}
}

// checkout registers a holder on the user's session, creating it when
// missing or expired. Sessions with holders are never evicted.
func (h *ledgerServiceHandler) checkout(userID string) *ledgerSession {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()

	now := h.Now()
	for id, s := range h.sessions {
		if s.holders == 0 && now.Sub(s.lastUsed) > h.Config.SessionTtl {
			delete(h.sessions, id)
		}
	}

	s, ok := h.sessions[userID]
	if !ok {
		s = &ledgerSession{}
		h.sessions[userID] = s
	}
	s.holders++
	s.lastUsed = now
	return s
}

func (h *ledgerServiceHandler) checkin(s *ledgerSession) {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()

	s.holders--
	s.lastUsed = h.Now()
}

// session returns the user's session locked. Callers must release it.
func (h *ledgerServiceHandler) session(ctx context.Context, userID string) (*ledgerSession, error) {
	s := h.checkout(userID)

	s.mu.Lock()
	if s.loaded {
		return s, nil
	}

	accounts, err := h.loadAccounts(ctx, userID)
	if err != nil {
		h.release(s)
		return nil, err
	}
	s.accounts = accounts
	s.loaded = true

	return s, nil
}

func (h *ledgerServiceHandler) release(s *ledgerSession) {
	s.mu.Unlock()
	h.checkin(s)
}

func (h *ledgerServiceHandler) loadAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	log := logger.FromContext(ctx)

	profile, err := h.ProfileRepository.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if profile != nil && len(profile.PortfolioAccounts) > 0 {
		return profile.PortfolioAccounts, nil
	}

	accounts := domain.DefaultAccounts()
	if err := h.persist(ctx, userID, accounts); err != nil {
		// the defaults are still usable, the next mutation writes them again
		log.Warnw("failed to persist default accounts", "userID", userID, "error", err)
	}
	return accounts, nil
}

func (h *ledgerServiceHandler) persist(ctx context.Context, userID string, accounts []domain.Account) error {
	err := h.ProfileRepository.Set(ctx, userID, repository.ProfileFields{
		"portfolioAccounts": accounts,
	})
	if err != nil {
		return &domain.PersistenceError{Err: err}
	}
	return nil
}

func (h *ledgerServiceHandler) Accounts(ctx context.Context, userID string) ([]domain.Account, error) {
	s, err := h.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer h.release(s)

	return domain.DeepCopyAccounts(s.accounts), nil
}

func (h *ledgerServiceHandler) Buy(ctx context.Context, userID string, cmd domain.BuyCommand) (*domain.Holding, []domain.Account, error) {
	cmd, _, err := cmd.Validate()
	if err != nil {
		return nil, nil, err
	}
	cmd.Quote = h.fetchQuote(ctx, cmd.Symbol)

	s, err := h.session(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	defer h.release(s)

	accounts, holding, err := domain.Buy(s.accounts, cmd, h.Now())
	if err != nil {
		return nil, nil, err
	}
	s.accounts = accounts

	if err := h.persist(ctx, userID, accounts); err != nil {
		return holding, domain.DeepCopyAccounts(accounts), err
	}
	return holding, domain.DeepCopyAccounts(accounts), nil
}

func (h *ledgerServiceHandler) Sell(ctx context.Context, userID string, cmd domain.SellCommand) ([]domain.Account, error) {
	s, err := h.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer h.release(s)

	accounts, err := domain.Sell(s.accounts, cmd)
	if err != nil {
		return nil, err
	}
	s.accounts = accounts

	if err := h.persist(ctx, userID, accounts); err != nil {
		return domain.DeepCopyAccounts(accounts), err
	}
	return domain.DeepCopyAccounts(accounts), nil
}

func (h *ledgerServiceHandler) RenameAccount(ctx context.Context, userID string, accountType domain.AccountType, newName string) ([]domain.Account, error) {
	s, err := h.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer h.release(s)

	accounts, changed := domain.RenameAccount(s.accounts, accountType, newName)
	if !changed {
		return domain.DeepCopyAccounts(s.accounts), nil
	}
	s.accounts = accounts

	if err := h.persist(ctx, userID, accounts); err != nil {
		return domain.DeepCopyAccounts(accounts), err
	}
	return domain.DeepCopyAccounts(accounts), nil
}

// fetchQuote returns nil when the quote could not be fetched. The failure
// is only logged.
func (h *ledgerServiceHandler) fetchQuote(ctx context.Context, symbol string) *decimal.Decimal {
	log := logger.FromContext(ctx)

	price, err := h.QuoteRepository.GetPrice(ctx, symbol)
	if err != nil {
		log.Warnw("quote fetch failed", "error", &domain.QuoteFetchError{Symbol: symbol, Err: err})
		return nil
	}
	return &price
}

type quoteJob struct {
	accountIdx int
	holdingIdx int
	symbol     string
}

type quoteResult struct {
	job   quoteJob
	quote *decimal.Decimal
}

// RefreshQuotes reprices every holding once per session unless force is
// set. Quotes are fetched concurrently, applied after all of them settle,
// and written back in a single persist call.
func (h *ledgerServiceHandler) RefreshQuotes(ctx context.Context, userID string, force bool) ([]domain.Account, error) {
	log := logger.FromContext(ctx)

	s, err := h.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer h.release(s)

	if s.pricesFetched && !force {
		return domain.DeepCopyAccounts(s.accounts), nil
	}

	jobs := []quoteJob{}
	for i, account := range s.accounts {
		for j, holding := range account.Holdings {
			if holding.Quotable() {
				jobs = append(jobs, quoteJob{accountIdx: i, holdingIdx: j, symbol: holding.Symbol})
			}
		}
	}

	results := h.asyncFetchQuotes(ctx, jobs)

	accounts := domain.DeepCopyAccounts(s.accounts)
	numFailed := 0
	for _, r := range results {
		if r.quote == nil {
			numFailed++
		}
		holding := accounts[r.job.accountIdx].Holdings[r.job.holdingIdx]
		accounts[r.job.accountIdx].Holdings[r.job.holdingIdx] = domain.ApplyQuote(holding, r.quote)
	}
	s.accounts = accounts
	s.pricesFetched = true

	log.Infow("refreshed quotes", "userID", userID, "numHoldings", len(jobs), "numFailed", numFailed)

	if err := h.persist(ctx, userID, accounts); err != nil {
		return domain.DeepCopyAccounts(accounts), err
	}
	return domain.DeepCopyAccounts(accounts), nil
}

func (h *ledgerServiceHandler) asyncFetchQuotes(ctx context.Context, jobs []quoteJob) []quoteResult {
	inputCh := make(chan quoteJob, len(jobs))
	resultCh := make(chan quoteResult, len(jobs))

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		inputCh <- j
	}
	close(inputCh)

	for i := 0; i < h.Config.NumWorkers; i++ {
		go func() {
			for j := range inputCh {
				resultCh <- quoteResult{
					job:   j,
					quote: h.fetchQuote(ctx, j.symbol),
				}
				wg.Done()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := []quoteResult{}
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

func (h *ledgerServiceHandler) account(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Account, error) {
	s, err := h.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer h.release(s)

	idx, err := domain.FindAccount(s.accounts, accountType)
	if err != nil {
		return nil, err
	}
	account := s.accounts[idx].DeepCopy()
	return &account, nil
}

func (h *ledgerServiceHandler) Series(ctx context.Context, userID string, accountType domain.AccountType) (*domain.Series, error) {
	account, err := h.account(ctx, userID, accountType)
	if err != nil {
		return nil, err
	}
	series := domain.BuildSeries(*account, h.Now())
	return &series, nil
}

func (h *ledgerServiceHandler) Summary(ctx context.Context, userID string, accountType domain.AccountType) (*domain.AccountSummary, error) {
	account, err := h.account(ctx, userID, accountType)
	if err != nil {
		return nil, err
	}
	summary := domain.Summarize(*account)
	return &summary, nil
}

type holdingCsvRow struct {
	Symbol        string `csv:"symbol"`
	Shares        string `csv:"shares"`
	PurchasePrice string `csv:"purchase_price"`
	Value         string `csv:"value"`
	Date          string `csv:"date"`
	CurrentPrice  string `csv:"current_price"`
	CurrentValue  string `csv:"current_value"`
	Change        string `csv:"change_pct"`
}

func (h *ledgerServiceHandler) ExportHoldingsCSV(ctx context.Context, userID string, accountType domain.AccountType) ([]byte, error) {
	account, err := h.account(ctx, userID, accountType)
	if err != nil {
		return nil, err
	}

	rows := []holdingCsvRow{}
	for _, holding := range account.Holdings {
		rows = append(rows, holdingCsvRow{
			Symbol:        holding.Symbol,
			Shares:        holding.Shares.String(),
			PurchasePrice: holding.PurchasePrice.StringFixed(2),
			Value:         holding.Value.StringFixed(2),
			Date:          holding.Date,
			CurrentPrice:  holding.MarketPrice().StringFixed(2),
			CurrentValue:  holding.MarketValue().StringFixed(2),
			Change:        holding.Change.StringFixed(2),
		})
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal holdings csv: %w", err)
	}
	return out, nil
}
