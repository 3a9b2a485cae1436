package api

import (
	"growyourdough/internal/domain"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) quickQuestions(c *gin.Context) {
	c.JSON(200, map[string][]string{
		"questions": m.AdvisorService.QuickQuestions(),
	})
}

type chatRequest struct {
	Message string            `json:"message"`
	History []domain.ChatTurn `json:"history"`
}

func (m ApiHandler) chat(c *gin.Context) {
	var requestBody chatRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	reply, err := m.AdvisorService.Chat(c.Request.Context(), domain.ChatRequest{
		Message: requestBody.Message,
		History: requestBody.History,
	})
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, reply)
}
