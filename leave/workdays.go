package leave

// =============================================================================
// WORKING DAY COUNTER
// =============================================================================

// CountWorkingDays counts working days (Mon-Fri) in the half-open range
// [start, end). The end date is excluded: a leave ending on Friday means
// the employee is back at work on Friday.
//
// Assumes a five-day work week. Public holidays are not consulted; that is
// a known limitation of the counter, not something callers should patch
// around by adjusting the range.
//
// Fails with ErrInvalidRange unless end is strictly after start.
func CountWorkingDays(start, end Date) (int, error) {
	if start.AfterOrEqual(end) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; d.Before(end); d = d.AddDays(1) {
		if d.IsWorkday() {
			days++
		}
	}
	return days, nil
}
