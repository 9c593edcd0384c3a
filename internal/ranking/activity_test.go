package ranking

import (
	"testing"
	"time"

	"quizrank-service/internal/domain"
)

func TestActiveDaysExcludesAttempt(t *testing.T) {
	attempts := []domain.Attempt{
		solvedAt(1, 10, "2024-01-01T09:00:00Z"),
		solvedAt(2, 11, "2024-01-01T18:00:00Z"),
		solvedAt(3, 12, "2024-01-02T09:00:00Z"),
	}

	all := ActiveDays(attempts, time.UTC, 0)
	if all.Len() != 2 {
		t.Fatalf("expected 2 distinct days, got %d", all.Len())
	}

	without := ActiveDays(attempts, time.UTC, 3)
	if without.Contains(day("2024-01-02")) {
		t.Fatalf("excluded attempt should not contribute its day")
	}
}

func TestActiveDaysUsesLocation(t *testing.T) {
	// 23:30 UTC is already the next day at UTC+2.
	attempts := []domain.Attempt{solvedAt(1, 10, "2024-01-01T23:30:00Z")}
	loc := time.FixedZone("UTC+2", 2*60*60)

	if !ActiveDays(attempts, time.UTC, 0).Contains(day("2024-01-01")) {
		t.Fatalf("expected 2024-01-01 in UTC")
	}
	if !ActiveDays(attempts, loc, 0).Contains(day("2024-01-02")) {
		t.Fatalf("expected 2024-01-02 in UTC+2")
	}
}

func TestLastActiveDayBefore(t *testing.T) {
	days := DaySet{
		day("2024-01-01"): {},
		day("2024-01-05"): {},
		day("2024-01-09"): {},
	}

	last, ok := LastActiveDayBefore(days, day("2024-01-09"))
	if !ok || last != day("2024-01-05") {
		t.Fatalf("expected 2024-01-05, got %v (ok=%v)", last, ok)
	}
	if _, ok := LastActiveDayBefore(days, day("2024-01-01")); ok {
		t.Fatalf("expected no day strictly before the earliest one")
	}
	if _, ok := LastActiveDayBefore(DaySet{}, day("2024-01-01")); ok {
		t.Fatalf("expected no day in empty set")
	}
}

func TestReport(t *testing.T) {
	attempts := []domain.Attempt{
		solvedAt(1, 10, "2024-01-03T09:00:00Z"),
		solvedAt(2, 11, "2024-01-01T09:00:00Z"),
		solvedAt(3, 12, "2024-01-04T09:00:00Z"),
	}
	report := Report(domain.UserCounters{UserID: 1, CurrentStreak: 2}, attempts, day("2024-01-04"), time.UTC)

	if !report.SolvedToday {
		t.Fatalf("expected solvedToday")
	}
	if report.LastActiveDay == nil || *report.LastActiveDay != day("2024-01-03") {
		t.Fatalf("expected last active day 2024-01-03, got %v", report.LastActiveDay)
	}
	if len(report.ActiveDays) != 3 || report.ActiveDays[0] != day("2024-01-01") {
		t.Fatalf("expected sorted active days, got %v", report.ActiveDays)
	}
	if report.SolvedCount != 3 {
		t.Fatalf("expected 3 solved attempts, got %d", report.SolvedCount)
	}
}
