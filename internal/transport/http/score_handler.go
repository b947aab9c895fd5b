package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
)

// SubmitFunc grades a submission. Users may only submit for themselves.
func (s *Server) SubmitFunc(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := s.decode(r, &req, "Invalid data format"); err != nil {
		s.returnError(w, r, err)
		return
	}
	if claims, _ := auth.FromContext(r.Context()); claims.UserID != req.UserID && !claims.IsAdmin {
		s.returnError(w, r, domain.ErrForbidden)
		return
	}

	result, err := s.scores.Submit(r.Context(), domain.Submission{
		UserID:          req.UserID,
		QuizTitle:       req.QuizTitle,
		SelectedAnswers: req.SelectedAnswers,
	})
	if err != nil {
		s.returnError(w, r, err)
		return
	}

	s.metrics.Submissions.WithLabelValues(req.QuizTitle).Inc()
	s.metrics.SubmissionScore.Observe(float64(result.Score))
	returnJSON(w, http.StatusOK, submitResponse{Message: "Quiz submitted successfully", GradeResult: result})
}

// UserScoresFunc lists the scores of one user; "all" lists every score and is admin only.
func (s *Server) UserScoresFunc(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	claims, _ := auth.FromContext(r.Context())

	var (
		views []domain.ScoreView
		err   error
	)
	switch {
	case userID == "all" && claims.IsAdmin:
		views, err = s.scores.AllScores(r.Context())
	case userID == "all", userID != claims.UserID && !claims.IsAdmin:
		err = domain.ErrForbidden
	default:
		views, err = s.scores.UserScores(r.Context(), userID)
	}
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, views)
}

func (s *Server) LeaderboardFunc(w http.ResponseWriter, r *http.Request) {
	lb, err := s.scores.Leaderboard(r.Context(), mux.Vars(r)["title"])
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, lb)
}
