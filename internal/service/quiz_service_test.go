package service

import (
	"errors"
	"testing"

	"foodsafe_backend/internal/util"
)

func TestCreateQuizValidatesThreshold(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-01", "Personal Hygiene")

	for _, threshold := range []int{-1, 101} {
		if _, err := env.quizzes.CreateQuiz(CreateQuizRequest{ProgramID: p.ID, Title: "bad", PassThreshold: threshold}); !errors.Is(err, util.ErrInvalidThreshold) {
			t.Errorf("threshold %d: want ErrInvalidThreshold, got %v", threshold, err)
		}
	}

	for _, threshold := range []int{0, 70, 100} {
		if _, err := env.quizzes.CreateQuiz(CreateQuizRequest{ProgramID: p.ID, Title: "ok", PassThreshold: threshold}); err != nil {
			t.Errorf("threshold %d: unexpected error %v", threshold, err)
		}
	}
}

func TestCreateQuizRequiresProgram(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.quizzes.CreateQuiz(CreateQuizRequest{ProgramID: 999, Title: "orphan", PassThreshold: 70}); !errors.Is(err, util.ErrProgramNotFound) {
		t.Fatalf("want ErrProgramNotFound, got %v", err)
	}
}

func TestPublishRejectsEmptyQuiz(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-02", "Handwashing")
	quiz := env.mustCreateDraftQuiz(t, p.ID, 70)

	_, err := env.quizzes.Publish(quiz.ID)
	var incomplete *util.IncompleteQuizError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want IncompleteQuizError, got %v", err)
	}

	// the quiz must still be a draft
	stored, err := env.quizzes.Repo.FindQuizByID(quiz.ID)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if stored.IsPublished {
		t.Error("failed publish flipped IsPublished")
	}
}

func TestPublishNamesOffendingQuestions(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-03", "Cross Contamination")
	quiz := env.mustCreateDraftQuiz(t, p.ID, 70)

	// q0 is fine, q1 has a single option, q2 has two correct options
	q0, _ := env.mustAddQuestion(t, quiz.ID, 0, 1)
	q1, err := env.quizzes.AddQuestion(quiz.ID, AddQuestionRequest{Text: "lonely", OrderIndex: 1})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if _, err := env.quizzes.AddOption(q1.ID, AddOptionRequest{Text: "only", IsCorrect: true}); err != nil {
		t.Fatalf("add option: %v", err)
	}
	q2, _ := env.mustAddQuestion(t, quiz.ID, 2, 1)
	if _, err := env.quizzes.AddOption(q2.ID, AddOptionRequest{Text: "also right", IsCorrect: true}); err != nil {
		t.Fatalf("add option: %v", err)
	}

	_, err = env.quizzes.Publish(quiz.ID)
	var incomplete *util.IncompleteQuizError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want IncompleteQuizError, got %v", err)
	}
	if len(incomplete.QuestionIDs) != 2 {
		t.Fatalf("offenders = %v, want exactly [%d %d]", incomplete.QuestionIDs, q1.ID, q2.ID)
	}
	if incomplete.QuestionIDs[0] != q1.ID || incomplete.QuestionIDs[1] != q2.ID {
		t.Errorf("offenders = %v, want [%d %d]", incomplete.QuestionIDs, q1.ID, q2.ID)
	}
	for _, id := range incomplete.QuestionIDs {
		if id == q0.ID {
			t.Errorf("valid question %d reported as offender", q0.ID)
		}
	}
}

func TestPublishRejectsOrderGap(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-04", "Glove Use")
	quiz := env.mustCreateDraftQuiz(t, p.ID, 70)

	// indexes 0 and 2, no 1
	env.mustAddQuestion(t, quiz.ID, 0, 1)
	env.mustAddQuestion(t, quiz.ID, 2, 1)

	_, err := env.quizzes.Publish(quiz.ID)
	var incomplete *util.IncompleteQuizError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want IncompleteQuizError, got %v", err)
	}
	if len(incomplete.QuestionIDs) == 0 {
		t.Error("order gap reported no offenders")
	}
}

func TestPublishedQuizIsImmutable(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-05", "Illness Reporting")
	quiz, qs := env.mustPublishQuiz(t, p.ID, 70, 1)

	if _, err := env.quizzes.AddQuestion(quiz.ID, AddQuestionRequest{Text: "late", OrderIndex: 1}); !errors.Is(err, util.ErrQuizLocked) {
		t.Errorf("AddQuestion on published quiz: want ErrQuizLocked, got %v", err)
	}
	if _, err := env.quizzes.AddOption(qs[0].QuestionID, AddOptionRequest{Text: "late"}); !errors.Is(err, util.ErrQuizLocked) {
		t.Errorf("AddOption on published quiz: want ErrQuizLocked, got %v", err)
	}
	if _, err := env.quizzes.Publish(quiz.ID); !errors.Is(err, util.ErrQuizLocked) {
		t.Errorf("second publish: want ErrQuizLocked, got %v", err)
	}
}

func TestPublishStampsPublishedAt(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-06", "Waste Disposal")
	quiz, _ := env.mustPublishQuiz(t, p.ID, 70, 2)

	if !quiz.IsPublished {
		t.Error("publish did not set IsPublished")
	}
	if quiz.PublishedAt == nil || quiz.PublishedAt.IsZero() {
		t.Error("publish did not stamp PublishedAt")
	}
}

func TestLearnerViewHidesAnswerKey(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-07", "Cold Chain")
	quiz, _ := env.mustPublishQuiz(t, p.ID, 70, 2)

	view, err := env.quizzes.GetLearnerView(quiz.ID)
	if err != nil {
		t.Fatalf("learner view: %v", err)
	}
	if len(view.Questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(view.Questions))
	}
	for _, q := range view.Questions {
		if len(q.Options) != 2 {
			t.Errorf("question %d option count = %d, want 2", q.ID, len(q.Options))
		}
	}
}

func TestLearnerViewRejectsDraft(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "HYG-08", "Label Reading")
	draft := env.mustCreateDraftQuiz(t, p.ID, 70)

	if _, err := env.quizzes.GetLearnerView(draft.ID); !errors.Is(err, util.ErrQuizNotPublished) {
		t.Fatalf("want ErrQuizNotPublished, got %v", err)
	}
}

func TestMapLockError(t *testing.T) {
	passthrough := errors.New("Error 1062 (23000): Duplicate entry 'HYG-01' for key 'programs.code'")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"lock wait timeout", errors.New("Error 1205 (HY000): Lock wait timeout exceeded; try restarting transaction"), util.ErrConcurrencyConflict},
		{"deadlock", errors.New("Error 1213 (40001): Deadlock found when trying to get lock; try restarting transaction"), util.ErrConcurrencyConflict},
		{"unrelated driver error", passthrough, passthrough},
		{"domain sentinel", util.ErrQuizLocked, util.ErrQuizLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapLockError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("mapLockError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
