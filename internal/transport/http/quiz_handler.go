package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizhub-service/internal/domain"
)

func (s *Server) AddQuizFunc(w http.ResponseWriter, r *http.Request) {
	var req addQuizRequest
	if err := s.decode(r, &req, "Title and questions are required"); err != nil {
		s.returnError(w, r, err)
		return
	}

	quiz, created, err := s.quizzes.AddQuestions(r.Context(), req.Title, req.Questions)
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	if created {
		returnJSON(w, http.StatusCreated, quizResponse{Message: "Quiz created and questions added successfully", Quiz: quiz})
		return
	}
	returnJSON(w, http.StatusOK, quizResponse{Message: "Quiz questions added successfully", Quiz: quiz})
}

// ListQuizzesFunc returns every quiz; correct answers are only shown to admins.
func (s *Server) ListQuizzesFunc(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.quizzes.List(r.Context())
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	out := make([]domain.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, s.visible(r, q))
	}
	returnJSON(w, http.StatusOK, out)
}

func (s *Server) ListQuizIDsFunc(w http.ResponseWriter, r *http.Request) {
	ids, err := s.quizzes.ListIDs(r.Context())
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, ids)
}

func (s *Server) GetQuizFunc(w http.ResponseWriter, r *http.Request) {
	quiz, err := s.quizzes.GetByTitle(r.Context(), mux.Vars(r)["title"])
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, s.visible(r, quiz))
}

func (s *Server) EditQuestionFunc(w http.ResponseWriter, r *http.Request) {
	var q domain.Question
	if err := s.decode(r, &q, "Invalid question format"); err != nil {
		s.returnError(w, r, err)
		return
	}

	quiz, err := s.quizzes.EditQuestion(r.Context(), mux.Vars(r)["id"], q)
	if err != nil {
		s.returnError(w, r, err)
		return
	}
	returnJSON(w, http.StatusOK, updatedQuizResponse{Message: "Quiz question updated successfully", UpdatedQuiz: quiz})
}

func (s *Server) DeleteQuestionFunc(w http.ResponseWriter, r *http.Request) {
	if err := s.quizzes.DeleteQuestion(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.returnError(w, r, err)
		return
	}
	ReturnHTTPMessage(w, r, http.StatusOK, "deleted", "Question deleted successfully")
}

func (s *Server) visible(r *http.Request, quiz domain.Quiz) domain.Quiz {
	if isAdmin(r) {
		return quiz
	}
	return quiz.Public()
}
