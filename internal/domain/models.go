package domain

import (
	"strings"
	"time"
)

// Attempt is the ledger record of a user's interaction with a quiz.
// There is at most one attempt per (UserID, QuizID).
type Attempt struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	QuizID      int64      `json:"quizId"`
	Solved      bool       `json:"solved"`
	AttemptedAt *time.Time `json:"attemptedAt"`
	Score       *int       `json:"score"`
}

// UserCounters holds the activity counters maintained by the streak updater.
type UserCounters struct {
	UserID             int64 `json:"userId"`
	CurrentStreak      int   `json:"currentStreak"`
	TotalQuizzesSolved int   `json:"totalQuizzesSolved"`
	DaysActive         int   `json:"daysActive"`
}

// User is the subset of the user entity the ranking service reads.
type User struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	College  string       `json:"college"`
	Counters UserCounters `json:"counters"`
}

// LeaderboardSnapshotRow is a persisted per-day score record.
type LeaderboardSnapshotRow struct {
	ID      int64  `json:"id"`
	Date    Date   `json:"date"`
	UserID  int64  `json:"userId"`
	Score   int    `json:"score"`
	College string `json:"college"`
}

// LeaderboardEntry is one ranked row of a leaderboard. Placeholder rows have a nil UserID.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	ID       *int64 `json:"id"`
	Date     *Date  `json:"date"`
	UserID   *int64 `json:"userId"`
	UserName string `json:"userName"`
	Score    int    `json:"score"`
	College  string `json:"college"`
}

// IsPlaceholder reports whether the entry pads the board rather than representing a user.
func (e LeaderboardEntry) IsPlaceholder() bool {
	return e.UserID == nil
}

// LeaderboardResult is the ranked view returned to callers.
type LeaderboardResult struct {
	Top100    []LeaderboardEntry `json:"top100"`
	UserRank  *int               `json:"userRank"`
	UserStats *LeaderboardEntry  `json:"userStats"`
}

// Quiz is the part of quiz content needed to judge a solve.
type Quiz struct {
	ID            int64    `json:"id"`
	Topic         string   `json:"topic"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// IsCorrect compares answers case-insensitively, ignoring surrounding whitespace.
func (q Quiz) IsCorrect(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(q.CorrectAnswer), strings.TrimSpace(answer))
}

// SolveSubmission models an answer sent by a user.
type SolveSubmission struct {
	UserID int64  `json:"userId"`
	QuizID int64  `json:"quizId"`
	Answer string `json:"answer"`
}

// SolveResult summarizes the outcome of a submission.
type SolveResult struct {
	QuizID        int64         `json:"quizId"`
	Correct       bool          `json:"correct"`
	Explanation   string        `json:"explanation,omitempty"`
	AlreadySolved bool          `json:"alreadySolved"`
	Counters      *UserCounters `json:"counters,omitempty"`
}

// SolvedQuiz pairs a solved quiz with the moment it was solved.
type SolvedQuiz struct {
	Quiz        Quiz       `json:"quiz"`
	AttemptedAt *time.Time `json:"attemptedAt"`
}

// SolveEvent is published after a newly correct solve updated a user's counters.
type SolveEvent struct {
	UserID   int64     `json:"userId"`
	QuizID   int64     `json:"quizId"`
	SolvedAt time.Time `json:"solvedAt"`
}

// ActivityReport describes how a user's streak is derived from the ledger.
type ActivityReport struct {
	UserID        int64        `json:"userId"`
	Today         Date         `json:"today"`
	ActiveDays    []Date       `json:"activeDays"`
	SolvedToday   bool         `json:"solvedToday"`
	LastActiveDay *Date        `json:"lastActiveDay"`
	SolvedCount   int          `json:"solvedAttemptsCount"`
	Counters      UserCounters `json:"counters"`
}

// Profile is a user's public ranking summary.
type Profile struct {
	UserID                 int64  `json:"userId"`
	Name                   string `json:"name"`
	College                string `json:"college"`
	CurrentStreak          int    `json:"currentStreak"`
	TotalQuizzesSolved     int    `json:"totalQuizzesSolved"`
	DaysActive             int    `json:"daysActive"`
	TotalQuestionsAnswered int    `json:"totalQuestionsAnswered"`
	Rank                   string `json:"rank"`
}
