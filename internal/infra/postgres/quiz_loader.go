package postgres

import (
	"context"
	"errors"
	"fmt"

	"quizrank-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizLoader loads quiz content from the quizzes table.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	var (
		quiz    = domain.Quiz{ID: quizID}
		options [4]string
	)
	err := l.pool.QueryRow(ctx,
		`SELECT topic, question, option1, option2, option3, option4, correct_answer, explanation
		   FROM quizzes WHERE id=$1`, quizID).
		Scan(&quiz.Topic, &quiz.Question, &options[0], &options[1], &options[2], &options[3], &quiz.CorrectAnswer, &quiz.Explanation)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	for _, opt := range options {
		if opt != "" {
			quiz.Options = append(quiz.Options, opt)
		}
	}
	return quiz, nil
}
