package domain

import (
	"strings"
	"time"
)

type OnboardingData struct {
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	LifeStage         string     `json:"lifeStage"`
	HousingMilestone  string     `json:"housingMilestone"`
	PlanningChildren  string     `json:"planningChildren"`
	SupportFamily     string     `json:"supportFamily"`
	IncomeStability   string     `json:"incomeStability"`
	JobChange         string     `json:"jobChange"`
	EmergencySavings  string     `json:"emergencySavings"`
	Milestones        []string   `json:"milestones"`
	InvestmentComfort string     `json:"investmentComfort"`
	PortfolioReaction string     `json:"portfolioReaction"`
	InvestmentHorizon string     `json:"investmentHorizon"`
	MonthlyInvestment string     `json:"monthlyInvestment"`
	LifestyleValues   string     `json:"lifestyleValues"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

func (d OnboardingData) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return &ValidationError{Message: "first name is required"}
	}
	if strings.TrimSpace(d.LifeStage) == "" {
		return &ValidationError{Message: "life stage is required"}
	}
	return nil
}

func (d OnboardingData) HasMilestone(m string) bool {
	for _, x := range d.Milestones {
		if x == m {
			return true
		}
	}
	return false
}

// UserProfile is the document stored per user
type UserProfile struct {
	UID                 string          `json:"uid"`
	Email               string          `json:"email"`
	DisplayName         string          `json:"displayName"`
	OnboardingCompleted bool            `json:"onboardingCompleted"`
	OnboardingData      *OnboardingData `json:"onboardingData,omitempty"`
	CreatedAt           *time.Time      `json:"createdAt,omitempty"`
	PortfolioAccounts   []Account       `json:"portfolioAccounts,omitempty"`
}

// FirstName picks the best name to greet the user with
func (p UserProfile) FirstName() string {
	if p.OnboardingData != nil && p.OnboardingData.FirstName != "" {
		return p.OnboardingData.FirstName
	}
	if fields := strings.Fields(p.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}
