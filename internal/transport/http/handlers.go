package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"

	"github.com/gorilla/mux"
)

// Handlers exposes the solve, leaderboard and profile use cases over REST.
type Handlers struct {
	solves       *app.SolveService
	leaderboards *app.LeaderboardService
	profiles     *app.ProfileService
}

func NewHandlers(solves *app.SolveService, leaderboards *app.LeaderboardService, profiles *app.ProfileService) *Handlers {
	return &Handlers{solves: solves, leaderboards: leaderboards, profiles: profiles}
}

type solveRequest struct {
	UserID int64  `json:"userId"`
	QuizID int64  `json:"quizId"`
	Answer string `json:"answer"`
}

func (h *Handlers) Solve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body", domain.ErrInvalidArgument))
		return
	}
	result, err := h.solves.Submit(r.Context(), domain.SolveSubmission{
		UserID: req.UserID,
		QuizID: req.QuizID,
		Answer: req.Answer,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) SolvedQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredID(r.URL.Query().Get("userId"), "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	solved, err := h.solves.SolvedQuizzes(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solved)
}

func (h *Handlers) Activity(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredID(r.URL.Query().Get("userId"), "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.profiles.Activity(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) DailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalID(r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	board, err := h.leaderboards.Daily(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handlers) CollegeLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalID(r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	board, err := h.leaderboards.College(r.Context(), r.URL.Query().Get("college"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredID(mux.Vars(r)["userId"], "userId")
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.profiles.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func requiredID(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidArgument, name)
	}
	return id, nil
}

// optionalID returns 0 when raw is empty.
func optionalID(raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return requiredID(raw, "userId")
}
