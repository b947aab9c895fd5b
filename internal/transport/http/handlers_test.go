package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizAdminFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedGeo(t)

	rec := env.do(t, http.MethodPost, "/api/quiz/add", env.adminToken, map[string]any{
		"title": "Geo101",
		"questions": []map[string]any{{
			"question":      "Africa is a continent",
			"questionType":  "true-false",
			"options":       []string{"True", "False"},
			"correctAnswer": "True",
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var added quizResponse
	decodeBody(t, rec, &added)
	assert.Equal(t, "Quiz questions added successfully", added.Message)
	assert.Len(t, added.Quiz.Questions, 2)

	var ids []string
	decodeBody(t, env.do(t, http.MethodGet, "/api/quiz/ids", "", nil), &ids)
	assert.Equal(t, []string{added.Quiz.ID}, ids)

	var list []map[string]any
	decodeBody(t, env.do(t, http.MethodGet, "/api/quiz/get", "", nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Geo101", list[0]["title"])
}

func TestQuizReadsHideAnswersFromNonAdmins(t *testing.T) {
	env := newTestEnv(t)
	env.seedGeo(t)

	var public map[string]any
	decodeBody(t, env.do(t, http.MethodGet, "/api/quiz/title/Geo101", env.userToken, nil), &public)
	question := public["questions"].([]any)[0].(map[string]any)
	assert.Nil(t, question["correctAnswer"])

	var full map[string]any
	decodeBody(t, env.do(t, http.MethodGet, "/api/quiz/title/Geo101", env.adminToken, nil), &full)
	question = full["questions"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"A", "B"}, question["correctAnswer"])

	rec := env.do(t, http.MethodGet, "/api/quiz/title/Nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizAddValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/quiz/add", env.adminToken, map[string]any{"title": "Geo101"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var msg HTTPMessage
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Title and questions are required", msg.Message)

	rec = env.do(t, http.MethodPost, "/api/quiz/add", env.adminToken, map[string]any{
		"title": "Geo101",
		"questions": []map[string]any{{
			"question":      "Pick",
			"questionType":  "single-choice",
			"options":       []string{"A", "B"},
			"correctAnswer": []string{"A"},
		}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/quiz/add", env.userToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/quiz/add", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEditAndDeleteQuestion(t *testing.T) {
	env := newTestEnv(t)
	env.seedGeo(t)
	id := env.firstQuestionID(t)

	rec := env.do(t, http.MethodPut, "/api/quiz/edit/"+id, env.adminToken, map[string]any{
		"question":      "Which are continents now?",
		"questionType":  "multiple-choice",
		"options":       []string{"A", "B", "C"},
		"correctAnswer": []string{"C"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated updatedQuizResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, "C", updated.UpdatedQuiz.Questions[0].CorrectAnswer.String())
	assert.Equal(t, id, updated.UpdatedQuiz.Questions[0].ID)

	rec = env.do(t, http.MethodPut, "/api/quiz/edit/missing", env.adminToken, map[string]any{
		"question":      "x",
		"questionType":  "true-false",
		"options":       []string{"True", "False"},
		"correctAnswer": "True",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/quiz/delete/"+id, env.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/quiz/delete/"+id, env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitAndListScores(t *testing.T) {
	env := newTestEnv(t)
	env.seedGeo(t)
	id := env.firstQuestionID(t)

	rec := env.do(t, http.MethodPost, "/api/score/submit", env.userToken, map[string]any{
		"userId":    env.userID,
		"quizTitle": "Geo101",
		"selectedAnswers": []map[string]any{
			{"questionId": id, "selectedAnswer": []string{"b", " a "}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Message        string            `json:"message"`
		Score          int               `json:"score"`
		Feedback       map[string]string `json:"feedback"`
		CorrectAnswers []struct {
			QuestionID    string   `json:"questionId"`
			CorrectAnswer []string `json:"correctAnswer"`
		} `json:"correctAnswers"`
	}
	decodeBody(t, rec, &res)
	assert.Equal(t, "Quiz submitted successfully", res.Message)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, "Your answer is correct!", res.Feedback[id])
	require.Len(t, res.CorrectAnswers, 1)
	assert.Equal(t, []string{"A", "B"}, res.CorrectAnswers[0].CorrectAnswer)

	var scores []map[string]any
	decodeBody(t, env.do(t, http.MethodGet, "/api/score/"+env.userID, env.userToken, nil), &scores)
	require.Len(t, scores, 1)
	assert.Equal(t, "Geo101", scores[0]["quizTitle"])
	assert.Equal(t, "alice", scores[0]["username"])
	assert.EqualValues(t, 1, scores[0]["score"])

	var lb struct {
		Entries []map[string]any `json:"entries"`
	}
	decodeBody(t, env.do(t, http.MethodGet, "/api/score/leaderboard/Geo101", "", nil), &lb)
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, "alice", lb.Entries[0]["username"])
}

func TestSubmitRejections(t *testing.T) {
	env := newTestEnv(t)
	env.seedGeo(t)
	body := func(user, title string) map[string]any {
		return map[string]any{"userId": user, "quizTitle": title, "selectedAnswers": []any{}}
	}

	cases := []struct {
		name   string
		token  string
		body   any
		status int
		msg    string
	}{
		{"no token", "", body(env.userID, "Geo101"), http.StatusUnauthorized, "Authentication required"},
		{"bad token", "garbage", body(env.userID, "Geo101"), http.StatusUnauthorized, "Authentication required"},
		{"someone else", env.userToken, body(env.otherID, "Geo101"), http.StatusForbidden, "Permission denied"},
		{"missing answers", env.userToken, map[string]any{"userId": env.userID, "quizTitle": "Geo101"}, http.StatusBadRequest, "Invalid data format"},
		{"broken json", env.userToken, "{", http.StatusBadRequest, "Invalid data format"},
		{"object answer", env.userToken, `{"userId":"` + env.userID + `","quizTitle":"Geo101","selectedAnswers":[{"questionId":"x","selectedAnswer":{"a":1}}]}`, http.StatusBadRequest, "answer must be a string or an array of strings"},
		{"unknown quiz", env.userToken, body(env.userID, "Nope"), http.StatusNotFound, "Quiz not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/score/submit", tc.token, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			var msg HTTPMessage
			decodeBody(t, rec, &msg)
			assert.Equal(t, tc.msg, msg.Message)
		})
	}

	rec := env.do(t, http.MethodPost, "/api/score/submit", env.adminToken, body(env.otherID, "Geo101"))
	assert.Equal(t, http.StatusOK, rec.Code, "admins may submit for others")
}

func TestScoreListingAccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/score/"+env.userID, env.userToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "empty listing")

	rec = env.do(t, http.MethodGet, "/api/score/"+env.otherID, env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/score/all", env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.seedGeo(t)
	rec = env.do(t, http.MethodPost, "/api/score/submit", env.userToken, map[string]any{
		"userId": env.userID, "quizTitle": "Geo101", "selectedAnswers": []any{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var all []map[string]any
	decodeBody(t, env.do(t, http.MethodGet, "/api/score/all", env.adminToken, nil), &all)
	assert.Len(t, all, 1)
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "carol", "password": "secret", "isAdmin": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg userResponse
	decodeBody(t, rec, &reg)
	assert.False(t, reg.User.IsAdmin, "admin signup disabled")
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "carol", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"username": "dave"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"username": "carol", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"username": "carol", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login loginResponse
	decodeBody(t, rec, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "carol", login.User.Username)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "quizhub_http_requests_total"), rec.Body.String())

	env.checks["redis"] = func(context.Context) error { return errors.New("down") }
	rec = env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodOptions, "/api/score/submit", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
