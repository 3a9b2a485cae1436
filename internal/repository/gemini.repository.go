package repository

import (
	"context"
	"fmt"

	"growyourdough/internal/domain"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiAdvisorRepositoryHandler struct {
	Client *genai.Client
	Model  string
}

func NewGeminiAdvisorRepository(ctx context.Context, apiKey string, model string) (AdvisorRepository, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to construct gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return geminiAdvisorRepositoryHandler{
		Client: client,
		Model:  model,
	}, nil
}

func geminiContents(message string, history []domain.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == domain.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

func (h geminiAdvisorRepositoryHandler) Send(ctx context.Context, systemPrompt string, message string, history []domain.ChatTurn) (string, error) {
	resp, err := h.Client.Models.GenerateContent(
		ctx,
		h.Model,
		geminiContents(message, history),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemPrompt}},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate gemini content: %w", err)
	}

	return resp.Text(), nil
}
