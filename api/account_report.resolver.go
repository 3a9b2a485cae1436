package api

import (
	"fmt"
	"strings"

	"growyourdough/internal/domain"

	"github.com/gin-gonic/gin"
)

func parseAccountTypeParam(s string) (domain.AccountType, error) {
	if strings.TrimSpace(s) == "" {
		return "", &domain.ValidationError{Message: "accountType is required"}
	}
	return domain.ParseAccountType(s)
}

type seriesResponse struct {
	Label  string    `json:"label"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (m ApiHandler) series(c *gin.Context) {
	userID := c.GetString(userIDKey)
	accountType, err := parseAccountTypeParam(c.Query("accountType"))
	if err != nil {
		returnDomainError(err, c)
		return
	}

	series, err := m.LedgerService.Series(c.Request.Context(), userID, accountType)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, seriesResponse{
		Label:  fmt.Sprintf("%s Performance", accountType),
		Labels: series.Labels,
		Values: floats(series.Values),
	})
}

type summaryResponse struct {
	AccountType         domain.AccountType `json:"accountType"`
	DisplayName         string             `json:"displayName"`
	TotalValue          float64            `json:"totalValue"`
	TotalValueDisplay   string             `json:"totalValueDisplay"`
	TotalCost           float64            `json:"totalCost"`
	Gain                float64            `json:"gain"`
	GainPercent         float64            `json:"gainPercent"`
	TotalContributed    float64            `json:"totalContributed"`
	AverageContribution float64            `json:"averageContribution"`
	PastContributions   []float64          `json:"pastContributions"`
	NextContribution    string             `json:"nextContribution"`
}

func (m ApiHandler) summary(c *gin.Context) {
	userID := c.GetString(userIDKey)
	accountType, err := parseAccountTypeParam(c.Query("accountType"))
	if err != nil {
		returnDomainError(err, c)
		return
	}

	s, err := m.LedgerService.Summary(c.Request.Context(), userID, accountType)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	c.JSON(200, summaryResponse{
		AccountType:         s.AccountType,
		DisplayName:         s.DisplayName,
		TotalValue:          s.TotalValue.InexactFloat64(),
		TotalValueDisplay:   s.TotalValueDisplay,
		TotalCost:           s.TotalCost.InexactFloat64(),
		Gain:                s.Gain.InexactFloat64(),
		GainPercent:         s.GainPercent.InexactFloat64(),
		TotalContributed:    s.TotalContributed.InexactFloat64(),
		AverageContribution: s.AverageContribution.InexactFloat64(),
		PastContributions:   floats(s.PastContributions),
		NextContribution:    s.NextContribution,
	})
}

func (m ApiHandler) holdingsCsv(c *gin.Context) {
	userID := c.GetString(userIDKey)
	accountType, err := parseAccountTypeParam(c.Query("accountType"))
	if err != nil {
		returnDomainError(err, c)
		return
	}

	out, err := m.LedgerService.ExportHoldingsCSV(c.Request.Context(), userID, accountType)
	if err != nil {
		returnDomainError(err, c)
		return
	}

	filename := strings.ToLower(strings.ReplaceAll(string(accountType), " ", "-")) + "-holdings.csv"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", out)
}
