package ranking

import (
	"testing"

	"quizrank-service/internal/domain"
)

func user(id int64, solved int, college string) domain.User {
	return domain.User{
		ID:       id,
		Name:     "user",
		College:  college,
		Counters: domain.UserCounters{UserID: id, TotalQuizzesSolved: solved},
	}
}

func TestBuildTieBreakAndPadding(t *testing.T) {
	population := []domain.User{user(10, 5, "MIT"), user(5, 5, "MIT"), user(7, 2, "MIT")}

	result := Build(population, nil, day("2024-01-01"), 7)

	if len(result.Top100) != BoardSize {
		t.Fatalf("expected %d entries, got %d", BoardSize, len(result.Top100))
	}
	wantIDs := []int64{5, 10, 7}
	for i, want := range wantIDs {
		e := result.Top100[i]
		if e.UserID == nil || *e.UserID != want {
			t.Fatalf("position %d: expected user %d, got %+v", i+1, want, e)
		}
		if e.Rank != i+1 {
			t.Fatalf("position %d: rank %d", i+1, e.Rank)
		}
	}
	for i := 3; i < BoardSize; i++ {
		e := result.Top100[i]
		if !e.IsPlaceholder() || e.Score != 0 || e.College != "" || e.Rank != i+1 {
			t.Fatalf("expected placeholder at %d, got %+v", i+1, e)
		}
	}
	if result.Top100[3].UserName != "User 4" || result.Top100[99].UserName != "User 100" {
		t.Fatalf("unexpected placeholder names %q / %q", result.Top100[3].UserName, result.Top100[99].UserName)
	}
	if result.UserRank == nil || *result.UserRank != 3 {
		t.Fatalf("expected requested user at rank 3, got %v", result.UserRank)
	}
	if result.UserStats == nil || result.UserStats.Score != 2 {
		t.Fatalf("expected user stats with score 2, got %+v", result.UserStats)
	}
}

func TestBuildSortedDescending(t *testing.T) {
	population := make([]domain.User, 0, 150)
	for i := int64(1); i <= 150; i++ {
		population = append(population, user(i, int(i%37), ""))
	}

	result := Build(population, nil, domain.Date{}, 0)
	if len(result.Top100) != BoardSize {
		t.Fatalf("expected truncation to %d, got %d", BoardSize, len(result.Top100))
	}
	for i := 1; i < len(result.Top100); i++ {
		prev, cur := result.Top100[i-1], result.Top100[i]
		if prev.Score < cur.Score {
			t.Fatalf("entries not sorted at %d: %d < %d", i, prev.Score, cur.Score)
		}
		if prev.Score == cur.Score && *prev.UserID > *cur.UserID {
			t.Fatalf("tie not broken by user id at %d", i)
		}
	}
}

func TestBuildRequestedUserOutsideTop(t *testing.T) {
	population := make([]domain.User, 0, 101)
	for i := int64(1); i <= 101; i++ {
		population = append(population, user(i, 200-int(i), ""))
	}

	result := Build(population, nil, domain.Date{}, 101)
	if result.UserRank != nil || result.UserStats != nil {
		t.Fatalf("expected no rank for user outside the top, got %v", result.UserRank)
	}

	if pos, ok := Position(population, 101); !ok || pos != 101 {
		t.Fatalf("expected full position 101, got %d (ok=%v)", pos, ok)
	}
}

func TestBuildUnknownUserHasNoRank(t *testing.T) {
	result := Build([]domain.User{user(1, 3, "")}, nil, domain.Date{}, 42)
	if result.UserRank != nil {
		t.Fatalf("expected nil rank")
	}
}

func TestBuildSnapshotsNeverChangeScore(t *testing.T) {
	population := []domain.User{user(1, 3, "MIT"), user(2, 1, "MIT")}
	snapshots := map[int64]domain.LeaderboardSnapshotRow{
		2: {ID: 77, Date: day("2023-12-31"), UserID: 2, Score: 50, College: "MIT"},
	}

	result := Build(population, snapshots, domain.Date{}, 2)
	entry := result.Top100[1]
	if entry.Score != 1 {
		t.Fatalf("snapshot score must not be added, got %d", entry.Score)
	}
	if entry.ID == nil || *entry.ID != 77 {
		t.Fatalf("expected snapshot id surfaced, got %v", entry.ID)
	}
	if entry.Date == nil || *entry.Date != day("2023-12-31") {
		t.Fatalf("expected snapshot date surfaced, got %v", entry.Date)
	}
	if result.Top100[0].Date != nil {
		t.Fatalf("user without snapshot should have no date")
	}

	daily := Build(population, snapshots, day("2024-01-01"), 2)
	if d := daily.Top100[1].Date; d == nil || *d != day("2024-01-01") {
		t.Fatalf("expected board date to win, got %v", d)
	}
}

func TestRankLabel(t *testing.T) {
	cases := map[int]string{1: "Top 10", 10: "Top 10", 11: "Top 50", 50: "Top 50", 100: "Top 100", 101: "Rank 101"}
	for pos, want := range cases {
		if got := RankLabel(pos); got != want {
			t.Fatalf("RankLabel(%d) = %q, want %q", pos, got, want)
		}
	}
}

func TestLatestByUser(t *testing.T) {
	rows := []domain.LeaderboardSnapshotRow{
		{ID: 1, UserID: 1, Date: day("2024-01-01")},
		{ID: 2, UserID: 1, Date: day("2024-01-03")},
		{ID: 3, UserID: 1, Date: day("2024-01-02")},
		{ID: 4, UserID: 2, Date: day("2024-01-01")},
	}
	latest := LatestByUser(rows)
	if latest[1].ID != 2 || latest[2].ID != 4 {
		t.Fatalf("unexpected latest rows %+v", latest)
	}
}
