package repository

import (
	"context"
	"fmt"

	"growyourdough/internal/domain"

	"github.com/ayush6624/go-chatgpt"
)

type gptAdvisorRepositoryHandler struct {
	GptClient *chatgpt.Client
	Model     chatgpt.ChatGPTModel
}

func NewGptAdvisorRepository(apiKey string, model string) (AdvisorRepository, error) {
	client, err := chatgpt.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to construct gpt client: %w", err)
	}

	m := chatgpt.GPT35Turbo
	if model != "" {
		m = chatgpt.ChatGPTModel(model)
	}

	return gptAdvisorRepositoryHandler{
		GptClient: client,
		Model:     m,
	}, nil
}

func gptMessages(systemPrompt string, message string, history []domain.ChatTurn) []chatgpt.ChatMessage {
	messages := []chatgpt.ChatMessage{
		{
			Role:    chatgpt.ChatGPTModelRoleSystem,
			Content: systemPrompt,
		},
	}
	for _, turn := range history {
		role := chatgpt.ChatGPTModelRoleUser
		if turn.Role == domain.ChatRoleAssistant {
			role = chatgpt.ChatGPTModelRoleAssistant
		}
		messages = append(messages, chatgpt.ChatMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	return append(messages, chatgpt.ChatMessage{
		Role:    chatgpt.ChatGPTModelRoleUser,
		Content: message,
	})
}

func (h gptAdvisorRepositoryHandler) Send(ctx context.Context, systemPrompt string, message string, history []domain.ChatTurn) (string, error) {
	res, err := h.GptClient.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model:    h.Model,
		Messages: gptMessages(systemPrompt, message, history),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get gpt completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", nil
	}

	return res.Choices[0].Message.Content, nil
}
