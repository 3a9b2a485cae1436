package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"growyourdough/internal/domain"
	"growyourdough/internal/repository"
)

type ProfileService interface {
	CompleteOnboarding(ctx context.Context, in CompleteOnboardingInput) (*domain.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateName(ctx context.Context, userID string, firstName string, lastName string) (*domain.UserProfile, error)
	Timeline(ctx context.Context, userID string) (*domain.Timeline, error)
}

type CompleteOnboardingInput struct {
	UserID      string
	Email       string
	DisplayName string
	Data        domain.OnboardingData
}

type profileServiceHandler struct {
	ProfileRepository repository.UserProfileRepository
	Now               func() time.Time
}

func NewProfileService(profileRepository repository.UserProfileRepository) ProfileService {
	return profileServiceHandler{
		ProfileRepository: profileRepository,
		Now:               time.Now,
	}
}

func (h profileServiceHandler) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := h.ProfileRepository.Get(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, &domain.NotFoundError{Resource: "profile", Key: userID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (h profileServiceHandler) CompleteOnboarding(ctx context.Context, in CompleteOnboardingInput) (*domain.UserProfile, error) {
	if err := in.Data.Validate(); err != nil {
		return nil, err
	}

	now := h.Now().UTC()
	data := in.Data
	data.FirstName = strings.TrimSpace(data.FirstName)
	data.LastName = strings.TrimSpace(data.LastName)
	data.CompletedAt = &now

	displayName := in.DisplayName
	if displayName == "" {
		displayName = "User"
	}

	createdAt := now
	existing, err := h.ProfileRepository.Get(ctx, in.UserID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if existing != nil && existing.CreatedAt != nil {
		createdAt = *existing.CreatedAt
	}

	err = h.ProfileRepository.Set(ctx, in.UserID, repository.ProfileFields{
		"uid":                 in.UserID,
		"email":               in.Email,
		"displayName":         displayName,
		"onboardingCompleted": true,
		"onboardingData":      data,
		"createdAt":           createdAt,
	})
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}

	return h.GetProfile(ctx, in.UserID)
}

func (h profileServiceHandler) UpdateName(ctx context.Context, userID string, firstName string, lastName string) (*domain.UserProfile, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return nil, &domain.ValidationError{Message: "first name is required"}
	}

	profile, err := h.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := domain.OnboardingData{}
	if profile.OnboardingData != nil {
		data = *profile.OnboardingData
	}
	data.FirstName = firstName
	data.LastName = strings.TrimSpace(lastName)

	err = h.ProfileRepository.Set(ctx, userID, repository.ProfileFields{
		"onboardingData": data,
	})
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}

	profile.OnboardingData = &data
	return profile, nil
}

func (h profileServiceHandler) Timeline(ctx context.Context, userID string) (*domain.Timeline, error) {
	profile, err := h.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.OnboardingCompleted {
		return nil, &domain.NotFoundError{Resource: "onboarding", Key: userID}
	}

	timeline := domain.RankTimeline(*profile)
	return &timeline, nil
}
