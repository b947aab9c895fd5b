package domain

import "time"

// QuestionType tags how a question is answered and which correctAnswer shape it carries.
type QuestionType string

const (
	SingleChoice   QuestionType = "single-choice"
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultipleChoice, TrueFalse:
		return true
	}
	return false
}

// Question is a single gradable item.
type Question struct {
	ID            string       `json:"id" bson:"id"`
	Prompt        string       `json:"question" bson:"question"`
	Type          QuestionType `json:"questionType" bson:"questionType"`
	Options       []string     `json:"options" bson:"options"`
	CorrectAnswer Answer       `json:"correctAnswer" bson:"correctAnswer"`
}

// Quiz is a titled collection of questions. Title is unique.
type Quiz struct {
	ID        string     `json:"id" bson:"_id"`
	Title     string     `json:"title" bson:"title"`
	Questions []Question `json:"questions" bson:"questions"`
}

// QuestionByID returns the question with the given id.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Clone returns a deep copy of the quiz.
func (q Quiz) Clone() Quiz {
	out := Quiz{ID: q.ID, Title: q.Title}
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			question.Options = append([]string(nil), question.Options...)
			question.CorrectAnswer = question.CorrectAnswer.clone()
			out.Questions[i] = question
		}
	}
	return out
}

// Public returns a copy of the quiz with every correct answer removed.
func (q Quiz) Public() Quiz {
	out := Quiz{ID: q.ID, Title: q.Title, Questions: make([]Question, len(q.Questions))}
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		question.CorrectAnswer = Answer{}
		out.Questions[i] = question
	}
	return out
}

// SelectedAnswer is one entry of a submission.
type SelectedAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     Answer `json:"selectedAnswer"`
}

// Submission is a user's set of selected answers for one quiz attempt.
type Submission struct {
	UserID          string           `json:"userId"`
	QuizTitle       string           `json:"quizTitle"`
	SelectedAnswers []SelectedAnswer `json:"selectedAnswers"`
}

// AnswerMap indexes the submitted answers by question id. Unanswered entries
// are dropped and a repeated question id keeps its last answer.
func (s Submission) AnswerMap() map[string]Answer {
	out := make(map[string]Answer, len(s.SelectedAnswers))
	for _, sa := range s.SelectedAnswers {
		if sa.Answer.IsZero() {
			delete(out, sa.QuestionID)
			continue
		}
		out[sa.QuestionID] = sa.Answer
	}
	return out
}

// CorrectAnswer pairs a question with its normalized correct answer list.
type CorrectAnswer struct {
	QuestionID    string   `json:"questionId"`
	CorrectAnswer []string `json:"correctAnswer"`
}

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Score          int               `json:"score"`
	Feedback       map[string]string `json:"feedback"`
	CorrectAnswers []CorrectAnswer   `json:"correctAnswers"`
}

// ScoreRecord is the persisted grading outcome, one per (user, quiz).
type ScoreRecord struct {
	UserID string    `json:"user" bson:"user"`
	QuizID string    `json:"quizId" bson:"quizId"`
	Score  int       `json:"score" bson:"score"`
	Date   time.Time `json:"date" bson:"date"`
}

// ScoreView is a ScoreRecord joined with the names it references.
type ScoreView struct {
	ScoreRecord
	Username  string `json:"username"`
	QuizTitle string `json:"quizTitle"`
}

// User is a registered account.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	IsAdmin      bool      `json:"isAdmin" bson:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// LeaderboardEntry is a snapshot-friendly view of one user's score on a quiz.
type LeaderboardEntry struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Score    int       `json:"score"`
	Date     time.Time `json:"date"`
}

// Leaderboard captures the ordered scoreboard for a quiz.
type Leaderboard struct {
	QuizTitle string             `json:"quizTitle"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
