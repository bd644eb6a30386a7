package domain

import "regexp"

// TimeRange is a half-open interval [Start, End) of zero-padded "HH:MM"
// wall-clock strings on a single calendar day.
type TimeRange struct {
	Start string
	End   string
}

var (
	timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	dateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
)

// ValidTime reports whether s is a zero-padded 24-hour "HH:MM" string.
func ValidTime(s string) bool { return timeRe.MatchString(s) }

// ValidDate reports whether s is a "2006-01-02" calendar day.
func ValidDate(s string) bool { return dateRe.MatchString(s) }

// Overlaps reports whether the existing range e collides with the
// candidate range c. The check is the disjunction of three cases with
// distinct boundary operators; they are kept as written rather than
// simplified to the general intersection test, because the boundary
// inclusivity differs per case:
//
//  1. candidate starts inside e:        e.Start <= c.Start && e.End > c.Start
//  2. candidate ends inside e:          e.Start <  c.End   && e.End >= c.End
//  3. candidate fully contains e:       e.Start >= c.Start && e.End <= c.End
//
// Back-to-back bookings (one ending exactly when the other starts) do not
// overlap. Comparison is lexicographic, which matches chronological order
// for zero-padded "HH:MM".
func (e TimeRange) Overlaps(c TimeRange) bool {
	if e.Start <= c.Start && e.End > c.Start {
		return true
	}
	if e.Start < c.End && e.End >= c.End {
		return true
	}
	if e.Start >= c.Start && e.End <= c.End {
		return true
	}
	return false
}

// FindConflicts returns the subset of existing events whose time range
// overlaps the candidate range. Callers are expected to have already
// filtered existing to the candidate's date and venue. The slice
// preserves the input order and is never nil.
func FindConflicts(existing []*Event, candidate TimeRange) []*Event {
	conflicts := make([]*Event, 0)
	for _, e := range existing {
		if (TimeRange{Start: e.StartTime, End: e.EndTime}).Overlaps(candidate) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}
