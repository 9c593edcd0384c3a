package app

import (
	"context"
	"fmt"

	"quizrank-service/internal/domain"
	"quizrank-service/internal/ranking"
)

// ProfileService exposes a user's counters, rank and activity history.
type ProfileService struct {
	repos Repositories
	cal   Calendar
}

func NewProfileService(repos Repositories, cal Calendar) *ProfileService {
	return &ProfileService{repos: repos, cal: cal}
}

func (s *ProfileService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	user, err := s.repos.Users().GetUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	users, err := s.repos.Users().ListUsers(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("list users: %w", err)
	}
	attempts, err := s.repos.Attempts().FindAttemptsByUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load attempts: %w", err)
	}

	position, ok := ranking.Position(users, userID)
	if !ok {
		position = len(users) + 1
	}
	return domain.Profile{
		UserID:                 user.ID,
		Name:                   user.Name,
		College:                user.College,
		CurrentStreak:          user.Counters.CurrentStreak,
		TotalQuizzesSolved:     user.Counters.TotalQuizzesSolved,
		DaysActive:             user.Counters.DaysActive,
		TotalQuestionsAnswered: len(attempts),
		Rank:                   ranking.RankLabel(position),
	}, nil
}

// Activity explains the stored streak: the distinct solve days and the last one before today.
func (s *ProfileService) Activity(ctx context.Context, userID int64) (domain.ActivityReport, error) {
	counters, err := s.repos.Users().GetCounters(ctx, userID)
	if err != nil {
		return domain.ActivityReport{}, err
	}
	attempts, err := s.repos.Attempts().FindAttemptsByUser(ctx, userID)
	if err != nil {
		return domain.ActivityReport{}, fmt.Errorf("load attempts: %w", err)
	}
	return ranking.Report(counters, attempts, s.cal.Today(), s.cal.Location), nil
}
