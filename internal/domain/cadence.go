package domain

import (
	"time"

	"growyourdough/internal/util"
)

const (
	ContributeASAP         = "ASAP"
	NextContributionLayout = "Jan 2, 2006"
)

// NextContribution derives the advisory "next contribution" text for an
// account that just received a contribution dated newDate. The reference
// date is the previous contribution date, or newDate for the first one.
// It is compared against wall clock now, not against newDate.
func NextContribution(lastContributionDate string, newDate time.Time, firstContribution bool, now time.Time) string {
	reference := newDate
	if !firstContribution && lastContributionDate != "" {
		if last, err := util.ParseDate(lastContributionDate); err == nil {
			reference = last
		}
	}

	oneMonthAgo := now.AddDate(0, -1, 0)
	if reference.Before(oneMonthAgo) {
		return ContributeASAP
	}

	return reference.AddDate(0, 1, 0).Format(NextContributionLayout)
}
