package api

import (
	"time"

	"growyourdough/internal/domain"
	"growyourdough/internal/service"

	"github.com/gin-gonic/gin"
)

type profileResponse struct {
	UID                 string                 `json:"uid"`
	Email               string                 `json:"email"`
	DisplayName         string                 `json:"displayName"`
	FirstName           string                 `json:"firstName"`
	OnboardingCompleted bool                   `json:"onboardingCompleted"`
	OnboardingData      *domain.OnboardingData `json:"onboardingData,omitempty"`
	CreatedAt           *time.Time             `json:"createdAt,omitempty"`
}

func profileToResponse(p domain.UserProfile) profileResponse {
	return profileResponse{
		UID:                 p.UID,
		Email:               p.Email,
		DisplayName:         p.DisplayName,
		FirstName:           p.FirstName(),
		OnboardingCompleted: p.OnboardingCompleted,
		OnboardingData:      p.OnboardingData,
		CreatedAt:           p.CreatedAt,
	}
}

func (m ApiHandler) getProfile(c *gin.Context) {
	userID := c.GetString(userIDKey)

	profile, err := m.ProfileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, profileToResponse(*profile))
}

func (m ApiHandler) completeOnboarding(c *gin.Context) {
	var requestBody domain.OnboardingData
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	profile, err := m.ProfileService.CompleteOnboarding(c.Request.Context(), service.CompleteOnboardingInput{
		UserID:      c.GetString(userIDKey),
		Email:       c.GetString(userEmailKey),
		DisplayName: c.GetString(userDisplayKey),
		Data:        requestBody,
	})
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, profileToResponse(*profile))
}

type updateNameRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (m ApiHandler) updateName(c *gin.Context) {
	var requestBody updateNameRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	profile, err := m.ProfileService.UpdateName(
		c.Request.Context(),
		c.GetString(userIDKey),
		requestBody.FirstName,
		requestBody.LastName,
	)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, profileToResponse(*profile))
}

func (m ApiHandler) timeline(c *gin.Context) {
	timeline, err := m.ProfileService.Timeline(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, timeline)
}
