package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"growyourdough/api"
	"growyourdough/internal/logger"
	"growyourdough/internal/repository"
	"growyourdough/internal/service"
	"growyourdough/internal/util"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	if handler.Db == nil {
		return
	}
	err := handler.Db.Close()
	if err != nil {
		logger.FromContext(context.Background()).Errorw("failed to close db", "error", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return InitializeDependenciesFromSecrets(context.Background(), *secrets)
}

func InitializeDependenciesFromSecrets(ctx context.Context, secrets util.Secrets) (*api.ApiHandler, error) {
	log := logger.FromContext(ctx)

	var err error
	var dbConn *sql.DB
	var profileRepository repository.UserProfileRepository
	switch secrets.Store {
	case "postgres":
		dbConn, err = sql.Open("postgres", secrets.Db.ToConnectionStr())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		profileRepository = repository.NewUserProfileRepository(dbConn)
	case "memory":
		log.Warnw("using in-memory profile store, nothing will survive a restart")
		profileRepository = repository.NewMemoryUserProfileRepository()
	default:
		return nil, fmt.Errorf("unknown store %q", secrets.Store)
	}

	var quoteRepository repository.QuoteRepository
	if strings.EqualFold(os.Getenv("GYD_ENV"), "test") || secrets.Quotes.Provider == "static" {
		quoteRepository = NewStaticQuoteRepository(nil)
	} else {
		quoteRepository, err = repository.NewQuoteRepository(secrets.Quotes)
		if err != nil {
			return nil, fmt.Errorf("failed to create quote repository: %w", err)
		}
	}

	advisorRepository, err := repository.NewAdvisorRepository(ctx, secrets.Advisor)
	if err != nil {
		return nil, fmt.Errorf("failed to create advisor repository: %w", err)
	}

	ledgerService := service.NewLedgerService(
		profileRepository,
		quoteRepository,
		service.LedgerServiceConfig{},
	)

	apiHandler := &api.ApiHandler{
		Db:                   dbConn,
		ApiRequestRepository: repository.ApiRequestRepositoryHandler{},
		LedgerService:        ledgerService,
		ProfileService:       service.NewProfileService(profileRepository),
		AdvisorService:       service.NewAdvisorService(advisorRepository),
		JwtDecodeToken:       secrets.Jwt,
	}

	return apiHandler, nil
}
