package repository

import (
	"context"
	"fmt"

	"growyourdough/internal/domain"
	"growyourdough/internal/util"
)

// AdvisorRepository sends one chat turn to a generative text service. The
// full history is replayed on every call.
type AdvisorRepository interface {
	Send(ctx context.Context, systemPrompt string, message string, history []domain.ChatTurn) (string, error)
}

func NewAdvisorRepository(ctx context.Context, secrets util.AdvisorSecrets) (AdvisorRepository, error) {
	switch secrets.Provider {
	case "gemini":
		return NewGeminiAdvisorRepository(ctx, secrets.GeminiApiKey, secrets.Model)
	case "openai":
		return NewGptAdvisorRepository(secrets.ChatGPTApiKey, secrets.Model)
	}
	return nil, fmt.Errorf("unknown advisor provider %q", secrets.Provider)
}
