package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

func (m ApiHandler) getPortfolio(c *gin.Context) {
	userID := c.GetString(userIDKey)

	// the first read of a session also refreshes quotes once
	accounts, err := m.LedgerService.RefreshQuotes(c.Request.Context(), userID, false)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, accountsToResponse(accounts))
}

type refreshPortfolioRequest struct {
	Force bool `json:"force"`
}

func (m ApiHandler) refreshPortfolio(c *gin.Context) {
	userID := c.GetString(userIDKey)

	// the body is optional; chunked requests report no content length
	var requestBody refreshPortfolioRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil && !errors.Is(err, io.EOF) {
		returnErrorJsonCode(err, c, 400)
		return
	}

	accounts, err := m.LedgerService.RefreshQuotes(c.Request.Context(), userID, requestBody.Force)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, accountsToResponse(accounts))
}

type renameAccountRequest struct {
	AccountType string `json:"accountType"`
	Name        string `json:"name"`
}

func (m ApiHandler) renameAccount(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var requestBody renameAccountRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	accountType, err := parseAccountTypeParam(requestBody.AccountType)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	accounts, err := m.LedgerService.RenameAccount(c.Request.Context(), userID, accountType, requestBody.Name)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, accountsToResponse(accounts))
}
