package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"quizrank-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz content from a backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID int64) (domain.Quiz, error)
}

// QuizRepository caches quiz content in Redis (hash per quiz) and falls back to a loader on cache miss.
// Quizzes are stored as: HSET quiz:{quizID} topic .. question .. options <json> answer .. explanation ..
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	key := r.key(quizID)
	if quiz, ok := r.fromCache(ctx, quizID, key); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.fromCache(ctx, quizID, key); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		options, err := json.Marshal(quiz.Options)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("encode options: %w", err)
		}
		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		pipe.HSet(ctx, key, map[string]interface{}{
			"topic":       quiz.Topic,
			"question":    quiz.Question,
			"options":     string(options),
			"answer":      quiz.CorrectAnswer,
			"explanation": quiz.Explanation,
		})
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// cache fill is best-effort; the loaded quiz is still returned
		_, _ = pipe.Exec(ctx)

		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) fromCache(ctx context.Context, quizID int64, key string) (domain.Quiz, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return domain.Quiz{}, false
	}
	quiz := domain.Quiz{
		ID:            quizID,
		Topic:         fields["topic"],
		Question:      fields["question"],
		CorrectAnswer: fields["answer"],
		Explanation:   fields["explanation"],
	}
	if raw := fields["options"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &quiz.Options); err != nil {
			return domain.Quiz{}, false
		}
	}
	return quiz, true
}

func (r *QuizRepository) key(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10)
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
