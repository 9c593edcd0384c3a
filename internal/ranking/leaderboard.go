package ranking

import (
	"fmt"
	"sort"

	"quizrank-service/internal/domain"
)

// BoardSize is the fixed length of every leaderboard.
const BoardSize = 100

// Build ranks population by total solved quizzes (desc, ties by user id asc), keeps the top
// BoardSize, pads the rest with placeholders and locates requestedUserID.
//
// Snapshot rows never change the score; they only contribute their row id and, when date is
// zero, their date. A non-zero date is stamped on every real entry.
func Build(population []domain.User, snapshots map[int64]domain.LeaderboardSnapshotRow, date domain.Date, requestedUserID int64) domain.LeaderboardResult {
	ranked := rank(population)
	if len(ranked) > BoardSize {
		ranked = ranked[:BoardSize]
	}

	entries := make([]domain.LeaderboardEntry, 0, BoardSize)
	for i, u := range ranked {
		userID := u.ID
		entry := domain.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   &userID,
			UserName: u.Name,
			Score:    u.Counters.TotalQuizzesSolved,
			College:  u.College,
		}
		if row, ok := snapshots[u.ID]; ok {
			rowID := row.ID
			entry.ID = &rowID
			if date.IsZero() && !row.Date.IsZero() {
				rowDate := row.Date
				entry.Date = &rowDate
			}
		}
		if !date.IsZero() {
			d := date
			entry.Date = &d
		}
		entries = append(entries, entry)
	}
	for i := len(entries) + 1; i <= BoardSize; i++ {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:     i,
			UserName: fmt.Sprintf("User %d", i),
		})
	}

	result := domain.LeaderboardResult{Top100: entries}
	for i := range entries {
		if entries[i].UserID != nil && *entries[i].UserID == requestedUserID {
			r := i + 1
			found := entries[i]
			result.UserRank = &r
			result.UserStats = &found
			break
		}
	}
	return result
}

// Position returns the 1-based position of userID in the full, untruncated ordering.
func Position(population []domain.User, userID int64) (int, bool) {
	for i, u := range rank(population) {
		if u.ID == userID {
			return i + 1, true
		}
	}
	return 0, false
}

// RankLabel buckets a position for display on a profile.
func RankLabel(position int) string {
	switch {
	case position <= 10:
		return "Top 10"
	case position <= 50:
		return "Top 50"
	case position <= BoardSize:
		return "Top 100"
	default:
		return fmt.Sprintf("Rank %d", position)
	}
}

// LatestByUser indexes snapshot rows by user, keeping the most recent date (then highest id).
func LatestByUser(rows []domain.LeaderboardSnapshotRow) map[int64]domain.LeaderboardSnapshotRow {
	out := make(map[int64]domain.LeaderboardSnapshotRow, len(rows))
	for _, row := range rows {
		prev, ok := out[row.UserID]
		if !ok || row.Date.After(prev.Date) || (row.Date == prev.Date && row.ID > prev.ID) {
			out[row.UserID] = row
		}
	}
	return out
}

func rank(population []domain.User) []domain.User {
	ranked := make([]domain.User, len(population))
	copy(ranked, population)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Counters.TotalQuizzesSolved, ranked[j].Counters.TotalQuizzesSolved
		if si != sj {
			return si > sj
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}
