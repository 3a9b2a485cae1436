package api

import (
	"growyourdough/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type buyRequest struct {
	AccountType string          `json:"accountType"`
	Symbol      string          `json:"symbol"`
	Shares      decimal.Decimal `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	Date        string          `json:"date"`
}

type buyResponse struct {
	Holding  *holdingResponse  `json:"holding"`
	Accounts []accountResponse `json:"accounts"`
}

func (m ApiHandler) buy(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var requestBody buyRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	accountType, err := parseAccountTypeParam(requestBody.AccountType)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	holding, accounts, err := m.LedgerService.Buy(c.Request.Context(), userID, domain.BuyCommand{
		AccountType: accountType,
		Symbol:      requestBody.Symbol,
		Shares:      requestBody.Shares,
		Price:       requestBody.Price,
		Date:        requestBody.Date,
	})
	if err != nil {
		returnDomainError(err, c)
		return
	}

	out := buyResponse{
		Accounts: accountsToResponse(accounts).Accounts,
	}
	if holding != nil {
		h := holdingToResponse(*holding)
		out.Holding = &h
	}

	c.JSON(200, out)
}

type sellRequest struct {
	AccountType string          `json:"accountType"`
	Symbol      string          `json:"symbol"`
	Shares      decimal.Decimal `json:"shares"`
}

func (m ApiHandler) sell(c *gin.Context) {
	userID := c.GetString(userIDKey)

	var requestBody sellRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	accountType, err := parseAccountTypeParam(requestBody.AccountType)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	accounts, err := m.LedgerService.Sell(c.Request.Context(), userID, domain.SellCommand{
		AccountType: accountType,
		Symbol:      requestBody.Symbol,
		Shares:      requestBody.Shares,
	})
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, accountsToResponse(accounts))
}
