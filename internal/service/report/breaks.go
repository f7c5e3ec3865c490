package report

import "github.com/preechaw/sewline/internal/domain/models"

// NetMinutes returns how many minutes of the given clock hour remain after
// subtracting active breaks, clamped to [0, 60].
//
// Each break is classified against the hour independently and the deductions
// are summed; overlapping breaks are not de-duplicated (the schedule is
// maintained non-overlapping by data entry).
func NetMinutes(hour int, breaks []models.BreakInterval) int {
	deducted := 0
	for _, b := range breaks {
		if !b.Active {
			continue
		}
		switch {
		case b.Start.Hour == hour && b.End.Hour == hour:
			// break starts and ends inside this hour
			deducted += b.End.Minute - b.Start.Minute
		case b.Start.Hour == hour:
			// starts here, ends in a later hour
			deducted += 60 - b.Start.Minute
		case b.End.Hour == hour && b.Start.Hour < hour:
			// started earlier, ends here
			deducted += b.End.Minute
		case b.Start.Hour < hour && b.End.Hour > hour:
			// spans the whole hour
			deducted += 60
		}
	}

	remaining := 60 - deducted
	if remaining < 0 {
		return 0
	}
	if remaining > 60 {
		return 60
	}
	return remaining
}
