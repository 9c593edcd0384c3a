package ranking

import (
	"time"

	"quizrank-service/internal/domain"
)

// StreakOutcome tells what RecordSolve did to the current streak.
type StreakOutcome string

const (
	StreakUnchanged StreakOutcome = "unchanged"
	StreakContinued StreakOutcome = "continued"
	StreakReset     StreakOutcome = "reset"
)

// RecordSolve recomputes a user's counters after the attempt identified by current became
// correct on today. attempts is the full ledger for the user, current included.
//
// The streak moves at most once per calendar day: if another solved attempt already falls
// on today the streak is left alone, otherwise it continues when the previous active day is
// yesterday and restarts at 1 after any gap.
func RecordSolve(user domain.UserCounters, attempts []domain.Attempt, current int64, today domain.Date, loc *time.Location) (domain.UserCounters, StreakOutcome) {
	before := ActiveDays(attempts, loc, current)

	next := user
	next.TotalQuizzesSolved = CountSolved(attempts)
	next.DaysActive = before.With(today).Len()

	if before.Contains(today) {
		return next, StreakUnchanged
	}

	if last, ok := LastActiveDayBefore(before, today); ok && last == today.AddDays(-1) {
		next.CurrentStreak = user.CurrentStreak + 1
		return next, StreakContinued
	}
	next.CurrentStreak = 1
	return next, StreakReset
}
