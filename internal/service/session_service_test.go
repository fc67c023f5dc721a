package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/util"
)

func TestCreateSessionRequiresProgramAndDate(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "SES-01", "Induction")

	date := time.Now()
	if _, err := env.sessions.CreateSession(SessionRequest{ProgramID: 999, Date: &date}); !errors.Is(err, util.ErrProgramNotFound) {
		t.Errorf("want ErrProgramNotFound, got %v", err)
	}
	if _, err := env.sessions.CreateSession(SessionRequest{ProgramID: p.ID}); err == nil {
		t.Error("session without a date must be rejected")
	}
}

func TestMarkAttendanceUpsertsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "SES-02", "Refresher")
	sess := env.mustCreateSession(t, p.ID)
	ctx := context.Background()

	first, err := env.sessions.MarkAttendance(ctx, sess.ID, MarkAttendanceRequest{UserID: 3, Attended: true, Comments: "on time"})
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}

	second, err := env.sessions.MarkAttendance(ctx, sess.ID, MarkAttendanceRequest{UserID: 3, Attended: false, Comments: "left early"})
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("re-marking created a new row: id %d then %d", first.ID, second.ID)
	}
	if second.Attended {
		t.Error("re-mark did not overwrite the attended flag")
	}
	if second.Comments != "left early" {
		t.Errorf("comments = %q, want %q", second.Comments, "left early")
	}

	var count int64
	env.db.Model(&model.Attendance{}).Where("session_id = ? AND user_id = ?", sess.ID, 3).Count(&count)
	if count != 1 {
		t.Errorf("attendance rows = %d, want 1", count)
	}
}

func TestMarkAttendanceUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.sessions.MarkAttendance(context.Background(), 999, MarkAttendanceRequest{UserID: 3, Attended: true}); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "SES-03", "Annual Audit Prep")
	sess := env.mustCreateSession(t, p.ID)
	ctx := context.Background()

	if _, err := env.sessions.MarkAttendance(ctx, sess.ID, MarkAttendanceRequest{UserID: 3, Attended: true}); err != nil {
		t.Fatalf("mark attendance: %v", err)
	}
	if _, err := env.certificates.Issue(ctx, sess.ID, IssueCertificateRequest{UserID: 3, FileReference: "certificates/x.pdf"}); err != nil {
		t.Fatalf("issue certificate: %v", err)
	}

	rows, err := env.matrix.BuildMatrix(ctx, 3)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	if len(rows) != 1 || !rows[0].Completed {
		t.Fatalf("attended quizless program must be completed before delete, got %+v", rows)
	}

	if err := env.sessions.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	if _, err := env.sessions.GetSession(sess.ID); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("session still resolvable after delete: %v", err)
	}
	var attendance, certs int64
	env.db.Unscoped().Model(&model.Attendance{}).Where("session_id = ?", sess.ID).Count(&attendance)
	env.db.Unscoped().Model(&model.Certificate{}).Where("session_id = ?", sess.ID).Count(&certs)
	if attendance != 0 || certs != 0 {
		t.Errorf("cascade left %d attendance and %d certificate rows", attendance, certs)
	}

	rows, err = env.matrix.BuildMatrix(ctx, 3)
	if err != nil {
		t.Fatalf("rebuild matrix: %v", err)
	}
	row := rows[0]
	if row.Completed || row.InProgress {
		t.Errorf("matrix still reflects deleted evidence: %+v", row)
	}
	if row.LastAttendedAt != nil || row.LastCertificateIssuedAt != nil {
		t.Errorf("evidence timestamps survived the cascade: %+v", row)
	}
}

func TestUpdateSessionPartial(t *testing.T) {
	env := newTestEnv(t)
	p := env.mustCreateProgram(t, "SES-04", "Night Shift Training")
	sess := env.mustCreateSession(t, p.ID)

	loc := "Plant 2, Room B"
	updated, err := env.sessions.UpdateSession(sess.ID, SessionRequest{Location: &loc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location != loc {
		t.Errorf("location = %q, want %q", updated.Location, loc)
	}
	if !updated.Date.Equal(sess.Date) {
		t.Error("omitted date field was overwritten")
	}
}
