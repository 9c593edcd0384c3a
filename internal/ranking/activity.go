// Package ranking derives activity streaks and leaderboards from quiz attempts.
// Everything here is pure; persistence and locking belong to the callers.
package ranking

import (
	"sort"
	"time"

	"quizrank-service/internal/domain"
)

// DaySet is a set of distinct calendar dates.
type DaySet map[domain.Date]struct{}

func (s DaySet) Contains(d domain.Date) bool {
	_, ok := s[d]
	return ok
}

func (s DaySet) Len() int {
	return len(s)
}

// With returns a copy of the set that also contains d.
func (s DaySet) With(d domain.Date) DaySet {
	out := make(DaySet, len(s)+1)
	for day := range s {
		out[day] = struct{}{}
	}
	out[d] = struct{}{}
	return out
}

// Sorted returns the dates in ascending order.
func (s DaySet) Sorted() []domain.Date {
	days := make([]domain.Date, 0, len(s))
	for day := range s {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// ActiveDays collects the calendar dates (in loc) of every solved attempt with a timestamp.
// An attempt whose ID equals exclude is skipped; pass 0 to keep all of them.
func ActiveDays(attempts []domain.Attempt, loc *time.Location, exclude int64) DaySet {
	days := make(DaySet)
	for _, a := range attempts {
		if !a.Solved || a.AttemptedAt == nil {
			continue
		}
		if exclude != 0 && a.ID == exclude {
			continue
		}
		days[domain.DateOf(*a.AttemptedAt, loc)] = struct{}{}
	}
	return days
}

// LastActiveDayBefore returns the latest day in days strictly before cutoff.
func LastActiveDayBefore(days DaySet, cutoff domain.Date) (domain.Date, bool) {
	var (
		last  domain.Date
		found bool
	)
	for day := range days {
		if !day.Before(cutoff) {
			continue
		}
		if !found || day.After(last) {
			last = day
			found = true
		}
	}
	return last, found
}

// CountSolved returns the number of attempts marked solved.
func CountSolved(attempts []domain.Attempt) int {
	n := 0
	for _, a := range attempts {
		if a.Solved {
			n++
		}
	}
	return n
}

// Report builds the activity view of a user's ledger as of today.
func Report(counters domain.UserCounters, attempts []domain.Attempt, today domain.Date, loc *time.Location) domain.ActivityReport {
	days := ActiveDays(attempts, loc, 0)
	report := domain.ActivityReport{
		UserID:      counters.UserID,
		Today:       today,
		ActiveDays:  days.Sorted(),
		SolvedToday: days.Contains(today),
		Counters:    counters,
	}
	for _, a := range attempts {
		if a.Solved && a.AttemptedAt != nil {
			report.SolvedCount++
		}
	}
	if last, ok := LastActiveDayBefore(days, today); ok {
		report.LastActiveDay = &last
	}
	return report
}
