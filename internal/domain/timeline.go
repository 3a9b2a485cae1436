package domain

import (
	"fmt"
	"sort"
)

type TimelineKey string

const (
	TimelineEmergencyFund TimelineKey = "emergencyFund"
	TimelineTFSA          TimelineKey = "tfsa"
	TimelineFHSA          TimelineKey = "fhsa"
	TimelineRRSP          TimelineKey = "rrsp"
	TimelineMaternity     TimelineKey = "maternity"
)

type TimelineItem struct {
	Key      TimelineKey `json:"key"`
	Label    string      `json:"label"`
	Summary  string      `json:"summary"`
	Blurb    string      `json:"blurb"`
	Relevant bool        `json:"relevant"`
	Account  AccountType `json:"accountType"`
}

type Timeline struct {
	FirstName string         `json:"firstName"`
	LifeStage string         `json:"lifeStage"`
	Items     []TimelineItem `json:"items"`
}

type timelineSignals struct {
	fhsaRelevant   bool
	rrspRelevant   bool
	familyRelated  bool
	emergencyBuilt bool
}

func readSignals(d OnboardingData) timelineSignals {
	wantsHomeSoon := d.HousingMilestone == "Yes, within 3 years" ||
		d.HousingMilestone == "Yes, within 3–7 years"
	wantsHomeEventually := d.HousingMilestone == "Yes, someday but not sure when"
	alreadyOwnsHome := d.HousingMilestone == "Already own a home"

	return timelineSignals{
		fhsaRelevant: !alreadyOwnsHome && (wantsHomeSoon || wantsHomeEventually),
		rrspRelevant: d.HasMilestone("Preparing for retirement") ||
			d.LifeStage == "Mid-career" ||
			d.LifeStage == "Near retirement",
		familyRelated: d.PlanningChildren == "Yes, within 1–3 years" ||
			d.PlanningChildren == "Yes, someday" ||
			d.PlanningChildren == "I already have children" ||
			d.HasMilestone("Starting a family"),
		emergencyBuilt: d.EmergencySavings == "Yes, fully built" ||
			d.EmergencySavings == "Yes, partially built",
	}
}

// RankTimeline orders the savings vehicles for a user. The emergency fund
// and TFSA always lead. The rest are stably sorted with relevant ones first.
func RankTimeline(profile UserProfile) Timeline {
	data := OnboardingData{}
	if profile.OnboardingData != nil {
		data = *profile.OnboardingData
	}
	signals := readSignals(data)

	lifeStage := data.LifeStage
	if lifeStage == "" {
		lifeStage = "your current life stage"
	}
	items := timelineItems(lifeStage, signals)

	remaining := []TimelineItem{items[TimelineFHSA], items[TimelineRRSP]}
	if signals.familyRelated {
		remaining = append(remaining, items[TimelineMaternity])
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Relevant && !remaining[j].Relevant
	})

	return Timeline{
		FirstName: profile.FirstName(),
		LifeStage: data.LifeStage,
		Items: append(
			[]TimelineItem{items[TimelineEmergencyFund], items[TimelineTFSA]},
			remaining...,
		),
	}
}

func timelineItems(lifeStage string, s timelineSignals) map[TimelineKey]TimelineItem {
	emergencySummary := "This is usually the very first money milestone."
	if s.emergencyBuilt {
		emergencySummary = "Your safety net supports everything else."
	}

	return map[TimelineKey]TimelineItem{
		TimelineEmergencyFund: {
			Key:     TimelineEmergencyFund,
			Label:   "Emergency Fund",
			Summary: emergencySummary,
			Blurb: fmt.Sprintf(`As someone in "%s", this portfolio is important because it protects your financial stability when life throws curveballs like job changes, health costs, or surprise expenses. It helps you avoid high interest debt and keeps your long term goals on track. A common benchmark is 3 to 6 months of essential expenses.`,
				lifeStage),
			Account: AccountTypeEmergencyFund,
		},
		TimelineTFSA: {
			Key:     TimelineTFSA,
			Label:   "Tax-Free Savings Account (TFSA)",
			Summary: "Typically the first investing account after your emergency fund.",
			Blurb: fmt.Sprintf(`As someone in "%s", this portfolio is important because it is usually the first place to grow your investments after your emergency fund. It lets your money grow tax free while staying flexible for both near term goals and long term wealth without losing gains to taxation.`,
				lifeStage),
			Account: AccountTypeTFSA,
		},
		TimelineFHSA: {
			Key:     TimelineFHSA,
			Label:   "First Home Savings Account (FHSA)",
			Summary: "A tax advantaged way to build a first home down payment.",
			Blurb: fmt.Sprintf(`As someone in "%s", this portfolio is important because it combines RRSP style tax deductions with TFSA style tax free withdrawals when used for a first home. If homeownership is in your plans, this can shorten the time to a down payment and make each dollar work harder.`,
				lifeStage),
			Relevant: s.fhsaRelevant,
			Account:  AccountTypeFHSA,
		},
		TimelineRRSP: {
			Key:     TimelineRRSP,
			Label:   "Registered Retirement Savings Plan (RRSP)",
			Summary: "A long term engine for retirement and financial independence.",
			Blurb: fmt.Sprintf(`As someone in "%s", this portfolio is important because it supports your future self. Contributions can lower today's taxes while investments grow tax deferred. RRSPs are especially powerful as your income rises and even if your career includes breaks for caregiving, education, or travel.`,
				lifeStage),
			Relevant: s.rrspRelevant,
			Account:  AccountTypeRRSP,
		},
		TimelineMaternity: {
			Key:     TimelineMaternity,
			Label:   "Maternity and Parental Leave Fund",
			Summary: "A dedicated buffer for income gaps and extra costs during pregnancy and early parenting.",
			Blurb: fmt.Sprintf(`As someone in "%s" who is planning for children, this portfolio is important because it gives you financial breathing room during maternity or parental leave. It helps cover reduced income, childcare transitions, health care costs, and early parenting expenses so you can focus on your family with less financial stress.`,
				lifeStage),
			Relevant: s.familyRelated,
			Account:  AccountTypeMaternityFund,
		},
	}
}
