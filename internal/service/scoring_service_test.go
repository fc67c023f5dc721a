package service

import (
	"context"
	"errors"
	"testing"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/util"
)

func TestRoundScore(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"three of four", 75.0, 75.0},
		{"one of three", 100.0 / 3.0, 33.3},
		{"two of three", 200.0 / 3.0, 66.7},
		{"half rounds down to even", 6.25, 6.2},
		{"half rounds up to even", 18.75, 18.8},
		{"zero", 0, 0},
		{"full", 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoundScore(tc.in); got != tc.want {
				t.Errorf("RoundScore(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSubmitScoresAndPersists(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HACCP-01", "HACCP Basics")
	quiz, qs := env.mustPublishQuiz(t, p.ID, 70, 4)

	// three correct out of four
	answers := model.AnswerMap{
		qs[0].QuestionID: qs[0].CorrectOptionID,
		qs[1].QuestionID: qs[1].CorrectOptionID,
		qs[2].QuestionID: qs[2].CorrectOptionID,
		qs[3].QuestionID: qs[3].WrongOptionID,
	}

	sub, err := env.scoring.Submit(context.Background(), quiz.ID, 1, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.ScorePercent != 75.0 {
		t.Errorf("score = %v, want 75.0", sub.ScorePercent)
	}
	if !sub.Passed {
		t.Error("expected submission to pass with threshold 70")
	}
	if sub.ID == 0 {
		t.Error("submission was not persisted")
	}
}

func TestSubmitThresholdIsInclusive(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "ALLERGEN-01", "Allergen Control")
	quiz, qs := env.mustPublishQuiz(t, p.ID, 50, 2)

	answers := model.AnswerMap{
		qs[0].QuestionID: qs[0].CorrectOptionID,
		qs[1].QuestionID: qs[1].WrongOptionID,
	}

	sub, err := env.scoring.Submit(context.Background(), quiz.ID, 1, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.ScorePercent != 50.0 {
		t.Errorf("score = %v, want 50.0", sub.ScorePercent)
	}
	if !sub.Passed {
		t.Error("score equal to the threshold must pass")
	}
}

func TestSubmitRejectsIncompleteAnswers(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "TEMP-01", "Temperature Control")
	quiz, qs := env.mustPublishQuiz(t, p.ID, 70, 3)

	// missing the third question, plus an answer for a question that
	// does not exist
	answers := model.AnswerMap{
		qs[0].QuestionID: qs[0].CorrectOptionID,
		qs[1].QuestionID: qs[1].CorrectOptionID,
		99999:            qs[0].CorrectOptionID,
	}

	_, err := env.scoring.Submit(context.Background(), quiz.ID, 1, answers)
	var incomplete *util.IncompleteSubmissionError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want IncompleteSubmissionError, got %v", err)
	}
	if len(incomplete.MissingQuestionIDs) != 1 || incomplete.MissingQuestionIDs[0] != qs[2].QuestionID {
		t.Errorf("missing = %v, want [%d]", incomplete.MissingQuestionIDs, qs[2].QuestionID)
	}
	if len(incomplete.UnknownQuestionIDs) != 1 || incomplete.UnknownQuestionIDs[0] != 99999 {
		t.Errorf("unknown = %v, want [99999]", incomplete.UnknownQuestionIDs)
	}

	// nothing must be persisted for a rejected submission
	var count int64
	env.db.Model(&model.QuizSubmission{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submission persisted %d rows", count)
	}
}

func TestSubmitRejectsForeignOption(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "CLEAN-01", "Cleaning & Sanitation")
	quiz, qs := env.mustPublishQuiz(t, p.ID, 70, 2)

	// answer question 0 with an option belonging to question 1
	answers := model.AnswerMap{
		qs[0].QuestionID: qs[1].CorrectOptionID,
		qs[1].QuestionID: qs[1].CorrectOptionID,
	}

	if _, err := env.scoring.Submit(context.Background(), quiz.ID, 1, answers); !errors.Is(err, util.ErrInvalidOption) {
		t.Fatalf("want ErrInvalidOption, got %v", err)
	}
}

func TestSubmitRequiresPublishedQuiz(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "PEST-01", "Pest Control")
	draft := env.mustCreateDraftQuiz(t, p.ID, 70)
	env.mustAddQuestion(t, draft.ID, 0, 1)

	if _, err := env.scoring.Submit(context.Background(), draft.ID, 1, model.AnswerMap{}); !errors.Is(err, util.ErrQuizNotPublished) {
		t.Fatalf("want ErrQuizNotPublished, got %v", err)
	}
	if _, err := env.scoring.Submit(context.Background(), 424242, 1, model.AnswerMap{}); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("want ErrQuizNotFound, got %v", err)
	}
}

func TestSubmitKeepsEveryAttempt(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "CHEM-01", "Chemical Handling")
	quiz, qs := env.mustPublishQuiz(t, p.ID, 100, 1)

	fail := model.AnswerMap{qs[0].QuestionID: qs[0].WrongOptionID}
	pass := model.AnswerMap{qs[0].QuestionID: qs[0].CorrectOptionID}

	if _, err := env.scoring.Submit(context.Background(), quiz.ID, 7, fail); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := env.scoring.Submit(context.Background(), quiz.ID, 7, pass); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	var count int64
	env.db.Model(&model.QuizSubmission{}).Where("user_id = ?", 7).Count(&count)
	if count != 2 {
		t.Errorf("attempt count = %d, want 2", count)
	}
}
