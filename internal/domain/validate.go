package domain

import "strings"

// ValidateQuestion checks a question definition at write time. Grading never
// re-validates, so every shape rule for correctAnswer lives here.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return Invalid("question", "question text is required")
	}
	if !q.Type.Valid() {
		return Invalid("questionType", "invalid questionType: %s", q.Type)
	}
	if err := validateOptions(q); err != nil {
		return err
	}

	switch q.Type {
	case SingleChoice:
		s, ok := q.CorrectAnswer.ScalarValue()
		if !ok || s == "" {
			return Invalid("correctAnswer", "invalid correctAnswer for single-choice question")
		}
		if !contains(q.Options, s) {
			return Invalid("correctAnswer", "correctAnswer %q is not one of the options", s)
		}
	case MultipleChoice:
		if !q.CorrectAnswer.IsSet() || len(q.CorrectAnswer.values) == 0 {
			return Invalid("correctAnswer", "invalid correctAnswer for multiple-choice question")
		}
		seen := make(map[string]struct{}, len(q.CorrectAnswer.values))
		for _, v := range q.CorrectAnswer.values {
			if !contains(q.Options, v) {
				return Invalid("correctAnswer", "correctAnswer %q is not one of the options", v)
			}
			if _, dup := seen[v]; dup {
				return Invalid("correctAnswer", "duplicate correctAnswer %q", v)
			}
			seen[v] = struct{}{}
		}
	case TrueFalse:
		s, ok := q.CorrectAnswer.ScalarValue()
		if !ok || (s != "True" && s != "False") {
			return Invalid("correctAnswer", "invalid correctAnswer for true-false question")
		}
	}
	return nil
}

func validateOptions(q Question) error {
	if q.Type == TrueFalse {
		if len(q.Options) != 2 || !contains(q.Options, "True") || !contains(q.Options, "False") {
			return Invalid("options", "true-false questions must have exactly the options True and False")
		}
		return nil
	}
	if len(q.Options) < 2 {
		return Invalid("options", "must have at least 2 choices")
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return Invalid("options", "options must not be empty")
		}
		if _, dup := seen[opt]; dup {
			return Invalid("options", "duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	return nil
}

// ValidateQuiz checks the title and every question of a quiz.
func ValidateQuiz(q Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return Invalid("title", "title is required")
	}
	if len(q.Questions) == 0 {
		return Invalid("questions", "at least one question is required")
	}
	for _, question := range q.Questions {
		if err := ValidateQuestion(question); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
