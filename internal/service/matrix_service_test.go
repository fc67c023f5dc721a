package service

import (
	"context"
	"testing"
	"time"

	"foodsafe_backend/internal/model"
)

func evidenceProgram(id uint, code string) model.Program {
	p := model.Program{Code: code, Title: code}
	p.ID = id
	return p
}

func submissionAt(id, quizID uint, at time.Time, score float64, passed bool) model.QuizSubmission {
	s := model.QuizSubmission{QuizID: quizID, ScorePercent: score, Passed: passed, SubmittedAt: at}
	s.ID = id
	return s
}

func TestBuildRowNoEvidence(t *testing.T) {
	row := BuildRow(model.ProgramEvidence{Program: evidenceProgram(1, "P1")})
	if row.Completed || row.InProgress {
		t.Errorf("empty evidence: completed=%v inProgress=%v, want both false", row.Completed, row.InProgress)
	}
	if row.LastAttendedAt != nil || row.LastQuizScore != nil {
		t.Error("empty evidence produced non-nil evidence fields")
	}
}

func TestBuildRowAttendanceCompletesQuizlessProgram(t *testing.T) {
	att := model.Attendance{Attended: true}
	att.CreatedAt = time.Now()

	row := BuildRow(model.ProgramEvidence{
		Program:    evidenceProgram(1, "P1"),
		HasQuiz:    false,
		Attendance: []model.Attendance{att},
	})
	if !row.Completed {
		t.Error("attendance alone must complete a program without quizzes")
	}
	if row.InProgress {
		t.Error("completed row must not be in progress")
	}
}

func TestBuildRowAttendanceAloneDoesNotCompleteQuizProgram(t *testing.T) {
	att := model.Attendance{Attended: true}
	att.CreatedAt = time.Now()
	quiz := model.Quiz{}
	quiz.ID = 10

	row := BuildRow(model.ProgramEvidence{
		Program:    evidenceProgram(1, "P1"),
		HasQuiz:    true,
		Quizzes:    []model.Quiz{quiz},
		Attendance: []model.Attendance{att},
	})
	if row.Completed {
		t.Error("attendance must not complete a program whose quiz is unpassed")
	}
	if !row.InProgress {
		t.Error("attended with an unpassed quiz must be in progress")
	}
}

func TestBuildRowLatestSubmissionDecides(t *testing.T) {
	quiz := model.Quiz{}
	quiz.ID = 10
	base := time.Now()

	// passed earlier, failed later: the later attempt decides
	row := BuildRow(model.ProgramEvidence{
		Program: evidenceProgram(1, "P1"),
		HasQuiz: true,
		Quizzes: []model.Quiz{quiz},
		Submissions: []model.QuizSubmission{
			submissionAt(1, 10, base, 90, true),
			submissionAt(2, 10, base.Add(time.Hour), 40, false),
		},
	})
	if row.Completed {
		t.Error("a later failed attempt must override an earlier pass")
	}
	if row.LastQuizScore == nil || *row.LastQuizScore != 40 {
		t.Errorf("last score = %v, want 40", row.LastQuizScore)
	}
	if !row.InProgress {
		t.Error("failed attempt must leave the program in progress")
	}

	// failed earlier, passed later
	row = BuildRow(model.ProgramEvidence{
		Program: evidenceProgram(1, "P1"),
		HasQuiz: true,
		Quizzes: []model.Quiz{quiz},
		Submissions: []model.QuizSubmission{
			submissionAt(1, 10, base, 40, false),
			submissionAt(2, 10, base.Add(time.Hour), 90, true),
		},
	})
	if !row.Completed {
		t.Error("a later passing attempt must complete the program")
	}
}

func TestBuildRowTimestampTieBrokenByID(t *testing.T) {
	quiz := model.Quiz{}
	quiz.ID = 10
	at := time.Now()

	row := BuildRow(model.ProgramEvidence{
		Program: evidenceProgram(1, "P1"),
		HasQuiz: true,
		Quizzes: []model.Quiz{quiz},
		Submissions: []model.QuizSubmission{
			submissionAt(2, 10, at, 90, true),
			submissionAt(1, 10, at, 40, false),
		},
	})
	if row.LastQuizScore == nil || *row.LastQuizScore != 90 {
		t.Errorf("last score = %v, want 90 (higher id wins the tie)", row.LastQuizScore)
	}
	if !row.Completed {
		t.Error("tie must resolve to the higher submission id")
	}
}

func TestBuildRowTracksLatestTimestamps(t *testing.T) {
	early := model.Attendance{Attended: true}
	early.CreatedAt = time.Now().Add(-48 * time.Hour)
	late := model.Attendance{Attended: true}
	late.CreatedAt = time.Now()
	skipped := model.Attendance{Attended: false}
	skipped.CreatedAt = time.Now().Add(time.Hour)

	certAt := time.Now().Add(-24 * time.Hour)

	row := BuildRow(model.ProgramEvidence{
		Program:    evidenceProgram(1, "P1"),
		Attendance: []model.Attendance{early, late, skipped},
		Certs:      []model.Certificate{{IssuedAt: certAt}},
	})
	if row.LastAttendedAt == nil || !row.LastAttendedAt.Equal(late.CreatedAt) {
		t.Errorf("lastAttendedAt = %v, want %v; attended=false rows must not count", row.LastAttendedAt, late.CreatedAt)
	}
	if row.LastCertificateIssuedAt == nil || !row.LastCertificateIssuedAt.Equal(certAt) {
		t.Errorf("lastCertificateIssuedAt = %v, want %v", row.LastCertificateIssuedAt, certAt)
	}
}

func TestBuildMatrixCoversAllPrograms(t *testing.T) {
	env := newTestEnv(t)
	withQuiz := env.mustCreateProgram(t, "MTX-01", "With Quiz")
	withoutQuiz := env.mustCreateProgram(t, "MTX-02", "Without Quiz")
	untouched := env.mustCreateProgram(t, "MTX-03", "Untouched")

	const userID = 5
	ctx := context.Background()

	// evidence for program 1: attend and pass its quiz
	s1 := env.mustCreateSession(t, withQuiz.ID)
	if _, err := env.sessions.MarkAttendance(ctx, s1.ID, MarkAttendanceRequest{UserID: userID, Attended: true}); err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
	quiz, qs := env.mustPublishQuiz(t, withQuiz.ID, 50, 2)
	answers := model.AnswerMap{
		qs[0].QuestionID: qs[0].CorrectOptionID,
		qs[1].QuestionID: qs[1].WrongOptionID,
	}
	if _, err := env.scoring.Submit(ctx, quiz.ID, userID, answers); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// evidence for program 2: attendance only, no quiz exists
	s2 := env.mustCreateSession(t, withoutQuiz.ID)
	if _, err := env.sessions.MarkAttendance(ctx, s2.ID, MarkAttendanceRequest{UserID: userID, Attended: true}); err != nil {
		t.Fatalf("mark attendance: %v", err)
	}

	rows, err := env.matrix.BuildMatrix(ctx, userID)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (every program, evidence or not)", len(rows))
	}

	byID := make(map[uint]model.TrainingMatrixRow)
	for _, r := range rows {
		byID[r.ProgramID] = r
	}

	if r := byID[withQuiz.ID]; !r.Completed {
		t.Errorf("program with passed quiz: completed = false, score = %v", r.LastQuizScore)
	} else if r.LastQuizScore == nil || *r.LastQuizScore != 50.0 {
		t.Errorf("program with passed quiz: score = %v, want 50.0", r.LastQuizScore)
	}
	if r := byID[withoutQuiz.ID]; !r.Completed {
		t.Error("attended quizless program must be completed")
	}
	if r := byID[untouched.ID]; r.Completed || r.InProgress {
		t.Error("untouched program must be neither completed nor in progress")
	}
}

// A quizless program completed by attendance alone reverts to in-progress
// the moment a quiz is published for it: the next matrix build must see the
// new quiz set, not a memoized verdict.
func TestQuizPublishFlipsAttendanceCompletion(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "MTX-10", "Chemical Handling")

	const userID = 9
	ctx := context.Background()

	sess := env.mustCreateSession(t, p.ID)
	if _, err := env.sessions.MarkAttendance(ctx, sess.ID, MarkAttendanceRequest{UserID: userID, Attended: true}); err != nil {
		t.Fatalf("mark attendance: %v", err)
	}

	rows, err := env.matrix.BuildMatrix(ctx, userID)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	if len(rows) != 1 || !rows[0].Completed {
		t.Fatalf("attended quizless program must be completed, got %+v", rows)
	}

	env.mustPublishQuiz(t, p.ID, 70, 1)

	rows, err = env.matrix.BuildMatrix(ctx, userID)
	if err != nil {
		t.Fatalf("rebuild matrix: %v", err)
	}
	if rows[0].Completed {
		t.Error("publishing a quiz must withdraw attendance-based completion")
	}
	if !rows[0].InProgress {
		t.Error("attended program with an unpassed quiz must be in progress")
	}
}
