package leave

import "time"

// =============================================================================
// PERIOD - The leave year
// =============================================================================

// Period is the 12-month accounting window during which entitlement accrues
// and carry-over is tracked. Balance is always computed against a period,
// not at a bare point in time. Both bounds are inclusive.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Previous returns the immediately preceding leave year.
func (p Period) Previous() Period {
	return Period{
		Start: p.Start.AddYears(-1),
		End:   p.Start.AddDays(-1),
	}
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// ResolvePeriod computes the leave year containing the reference date,
// anchored to the configured start month (1-12).
//
// If the reference date's month is before the start month, the period
// began on startMonth/1 of the previous calendar year; otherwise it began
// on startMonth/1 of the current year. The period ends one year later,
// less a day.
//
// Fails with ErrInvalidStartMonth for a month outside 1-12. Deterministic
// otherwise: the same inputs always yield the same bounds.
func ResolvePeriod(reference Date, startMonth int) (Period, error) {
	if startMonth < 1 || startMonth > 12 {
		return Period{}, ErrInvalidStartMonth
	}

	year := reference.Year()
	if int(reference.Month()) < startMonth {
		year--
	}

	start := NewDate(year, time.Month(startMonth), 1)
	return Period{
		Start: start,
		End:   start.AddYears(1).AddDays(-1),
	}, nil
}
