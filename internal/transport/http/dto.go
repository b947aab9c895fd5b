package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizhub-service/internal/domain"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

type addQuizRequest struct {
	Title     string            `json:"title" validate:"required"`
	Questions []domain.Question `json:"questions" validate:"required,min=1"`
}

// submitRequest keeps selectedAnswers required but allows an empty list.
type submitRequest struct {
	UserID          string                  `json:"userId" validate:"required"`
	QuizTitle       string                  `json:"quizTitle" validate:"required"`
	SelectedAnswers []domain.SelectedAnswer `json:"selectedAnswers" validate:"required"`
}

type submitResponse struct {
	Message string `json:"message"`
	domain.GradeResult
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type userResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

type quizResponse struct {
	Message string      `json:"message"`
	Quiz    domain.Quiz `json:"quiz"`
}

type updatedQuizResponse struct {
	Message     string      `json:"message"`
	UpdatedQuiz domain.Quiz `json:"updatedQuiz"`
}

// decode reads a JSON body into dst and validates it. Any failure becomes a
// *domain.ValidationError carrying message, except answer shape errors which
// keep their own text.
func (s *Server) decode(r *http.Request, dst any, message string) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return domain.Invalid("", message)
	}
	if err := s.validate.Struct(dst); err != nil {
		return domain.Invalid("", message)
	}
	return nil
}
