package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func timelineKeys(tl Timeline) []TimelineKey {
	keys := []TimelineKey{}
	for _, item := range tl.Items {
		keys = append(keys, item.Key)
	}
	return keys
}

func TestRankTimeline(t *testing.T) {
	t.Run("no onboarding data", func(t *testing.T) {
		tl := RankTimeline(UserProfile{DisplayName: "Jane Doe"})
		require.Equal(t, []TimelineKey{TimelineEmergencyFund, TimelineTFSA, TimelineFHSA, TimelineRRSP}, timelineKeys(tl))
		require.Equal(t, "Jane", tl.FirstName)
		require.Contains(t, tl.Items[0].Blurb, `"your current life stage"`)
		require.Equal(t, "This is usually the very first money milestone.", tl.Items[0].Summary)
	})

	t.Run("retirement ranks rrsp before fhsa", func(t *testing.T) {
		tl := RankTimeline(UserProfile{OnboardingData: &OnboardingData{
			FirstName:        "Sam",
			LifeStage:        "Mid-career",
			HousingMilestone: "Already own a home",
			EmergencySavings: "Yes, fully built",
		}})
		require.Equal(t, []TimelineKey{TimelineEmergencyFund, TimelineTFSA, TimelineRRSP, TimelineFHSA}, timelineKeys(tl))
		require.Equal(t, "Sam", tl.FirstName)
		require.Equal(t, "Your safety net supports everything else.", tl.Items[0].Summary)
		require.Contains(t, tl.Items[2].Blurb, `"Mid-career"`)
	})

	t.Run("family related adds maternity ranked first", func(t *testing.T) {
		tl := RankTimeline(UserProfile{OnboardingData: &OnboardingData{
			LifeStage:        "Early career",
			PlanningChildren: "Yes, within 1–3 years",
		}})
		require.Equal(t, []TimelineKey{TimelineEmergencyFund, TimelineTFSA, TimelineMaternity, TimelineFHSA, TimelineRRSP}, timelineKeys(tl))
		require.Equal(t, AccountTypeMaternityFund, tl.Items[2].Account)
	})

	t.Run("home and family keep relative order", func(t *testing.T) {
		tl := RankTimeline(UserProfile{OnboardingData: &OnboardingData{
			LifeStage:        "Early career",
			HousingMilestone: "Yes, someday but not sure when",
			Milestones:       []string{"Starting a family"},
		}})
		require.Equal(t, []TimelineKey{TimelineEmergencyFund, TimelineTFSA, TimelineFHSA, TimelineMaternity, TimelineRRSP}, timelineKeys(tl))
	})

	t.Run("home owners do not get fhsa boost", func(t *testing.T) {
		tl := RankTimeline(UserProfile{OnboardingData: &OnboardingData{
			HousingMilestone: "Already own a home",
			Milestones:       []string{"Preparing for retirement"},
		}})
		require.Equal(t, []TimelineKey{TimelineEmergencyFund, TimelineTFSA, TimelineRRSP, TimelineFHSA}, timelineKeys(tl))
		require.False(t, tl.Items[3].Relevant)
	})
}

func TestOnboardingData_Validate(t *testing.T) {
	require.Error(t, OnboardingData{LifeStage: "Student"}.Validate())
	require.Error(t, OnboardingData{FirstName: "Ana"}.Validate())
	require.NoError(t, OnboardingData{FirstName: "Ana", LifeStage: "Student"}.Validate())
}
