package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"growyourdough/internal/db/models/postgres/public/model"
	"growyourdough/internal/db/models/postgres/public/table"
	"growyourdough/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileFields is a partial user document. Top level keys replace the
// stored ones, every other key is left alone.
type ProfileFields map[string]any

// UserProfileRepository stores one json document per user
type UserProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Set(ctx context.Context, userID string, fields ProfileFields) error
}

type userProfileRepositoryHandler struct {
	Db *sql.DB
}

func NewUserProfileRepository(db *sql.DB) UserProfileRepository {
	return userProfileRepositoryHandler{
		Db: db,
	}
}

func (h userProfileRepositoryHandler) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := table.UserProfile.
		SELECT(table.UserProfile.AllColumns).
		FROM(table.UserProfile).
		WHERE(table.UserProfile.UserID.EQ(postgres.String(userID)))

	out := model.UserProfile{}
	err := query.QueryContext(ctx, h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, ErrProfileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	profile := domain.UserProfile{}
	if err := json.Unmarshal([]byte(out.Document), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode user profile %s: %w", userID, err)
	}

	return &profile, nil
}

func (h userProfileRepositoryHandler) Set(ctx context.Context, userID string, fields ProfileFields) error {
	document, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode user profile fields: %w", err)
	}

	now := time.Now().UTC()
	query := table.UserProfile.
		INSERT(table.UserProfile.AllColumns).
		MODEL(model.UserProfile{
			UserID:    userID,
			Document:  string(document),
			CreatedAt: now,
			UpdatedAt: now,
		}).
		ON_CONFLICT(table.UserProfile.UserID).
		DO_UPDATE(
			postgres.SET(
				table.UserProfile.Document.SET(
					postgres.StringExp(postgres.Raw("user_profile.document || excluded.document")),
				),
				table.UserProfile.UpdatedAt.SET(table.UserProfile.EXCLUDED.UpdatedAt),
			),
		)

	_, err = query.ExecContext(ctx, h.Db)
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}

	return nil
}
