package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/pkg/logger"
	"foodsafe_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MatrixService reduces all training evidence for one user to a single row
// per program: attendance, quiz submissions and certificates in, one
// completed/in-progress verdict out. Pure read-side aggregation; the only
// state it owns is an optional redis memo invalidated by evidence writes.
type MatrixService struct {
	Programs     *repository.ProgramRepository
	Sessions     *repository.SessionRepository
	Attendance   *repository.AttendanceRepository
	Quizzes      *repository.QuizRepository
	Submissions  *repository.SubmissionRepository
	Certificates *repository.CertificateRepository
	Redis        *redis.Client
	CacheTTL     time.Duration
}

func NewMatrixService(
	programs *repository.ProgramRepository,
	sessions *repository.SessionRepository,
	attendance *repository.AttendanceRepository,
	quizzes *repository.QuizRepository,
	submissions *repository.SubmissionRepository,
	certificates *repository.CertificateRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *MatrixService {
	return &MatrixService{
		Programs:     programs,
		Sessions:     sessions,
		Attendance:   attendance,
		Quizzes:      quizzes,
		Submissions:  submissions,
		Certificates: certificates,
		Redis:        rdb,
		CacheTTL:     cacheTTL,
	}
}

const matrixVersionKey = "training_matrix:version"

// cacheKey embeds the current cache version so a version bump orphans every
// memoized matrix at once. Orphaned entries fall out with their TTL.
func (s *MatrixService) cacheKey(ctx context.Context, userID uint) string {
	version, err := s.Redis.Get(ctx, matrixVersionKey).Int64()
	if err != nil {
		version = 0
	}
	return fmt.Sprintf("training_matrix:v%d:%d", version, userID)
}

// BuildMatrix returns one row per non-archived program, including programs
// the user has no evidence for.
func (s *MatrixService) BuildMatrix(ctx context.Context, userID uint) ([]model.TrainingMatrixRow, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, s.cacheKey(ctx, userID)).Bytes(); err == nil {
			var rows []model.TrainingMatrixRow
			if json.Unmarshal(cached, &rows) == nil {
				return rows, nil
			}
		}
	}

	start := time.Now()

	programs, err := s.Programs.ListAll()
	if err != nil {
		return nil, err
	}

	rows := make([]model.TrainingMatrixRow, 0, len(programs))
	for _, p := range programs {
		evidence, err := s.gatherEvidence(p, userID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, BuildRow(evidence))
	}

	monitoring.MatrixBuildDuration.Observe(time.Since(start).Seconds())

	if s.Redis != nil {
		if raw, err := json.Marshal(rows); err == nil {
			if err := s.Redis.Set(ctx, s.cacheKey(ctx, userID), raw, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("matrix cache write failed", zap.Uint("user_id", userID), zap.Error(err))
			}
		}
	}

	return rows, nil
}

// InvalidateUser drops the memoized matrix after an evidence write.
func (s *MatrixService) InvalidateUser(ctx context.Context, userID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, s.cacheKey(ctx, userID)).Err(); err != nil {
		logger.Log.Warn("matrix cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// InvalidateAll bumps the cache version after a structural write: a program
// or quiz appearing, changing or disappearing alters every user's matrix,
// not just one user's evidence.
func (s *MatrixService) InvalidateAll(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Incr(ctx, matrixVersionKey).Err(); err != nil {
		logger.Log.Warn("matrix cache version bump failed", zap.Error(err))
	}
}

func (s *MatrixService) gatherEvidence(p model.Program, userID uint) (model.ProgramEvidence, error) {
	ev := model.ProgramEvidence{Program: p}

	sessions, err := s.Sessions.ListByProgram(p.ID)
	if err != nil {
		return ev, err
	}
	sessionIDs := make([]uint, len(sessions))
	for i, sess := range sessions {
		sessionIDs[i] = sess.ID
	}

	quizzes, err := s.Quizzes.ListQuizzesByProgram(p.ID)
	if err != nil {
		return ev, err
	}
	quizIDs := make([]uint, len(quizzes))
	for i, q := range quizzes {
		quizIDs[i] = q.ID
	}

	ev.Quizzes = quizzes
	ev.HasQuiz = len(quizzes) > 0

	if ev.Attendance, err = s.Attendance.ListByUserAndSessions(userID, sessionIDs); err != nil {
		return ev, err
	}
	if ev.Submissions, err = s.Submissions.ListByUserAndQuizzes(userID, quizIDs); err != nil {
		return ev, err
	}
	if ev.Certs, err = s.Certificates.ListByUserAndSessions(userID, sessionIDs); err != nil {
		return ev, err
	}
	return ev, nil
}

// BuildRow reduces one program's evidence to its matrix row. Deterministic
// for a fixed evidence set and free of side effects.
//
// Completion: the latest submission decides quiz programs; attendance alone
// completes a program only when it has no quiz at all. In-progress marks a
// user who failed an attempt, or attended a session of a program whose
// quizzes are still unpassed.
func BuildRow(ev model.ProgramEvidence) model.TrainingMatrixRow {
	row := model.TrainingMatrixRow{
		ProgramID:    ev.Program.ID,
		ProgramCode:  ev.Program.Code,
		ProgramTitle: ev.Program.Title,
	}

	anyAttended := false
	for _, a := range ev.Attendance {
		if !a.Attended {
			continue
		}
		anyAttended = true
		t := a.CreatedAt
		if row.LastAttendedAt == nil || t.After(*row.LastAttendedAt) {
			row.LastAttendedAt = &t
		}
	}

	for _, c := range ev.Certs {
		t := c.IssuedAt
		if row.LastCertificateIssuedAt == nil || t.After(*row.LastCertificateIssuedAt) {
			row.LastCertificateIssuedAt = &t
		}
	}

	if len(ev.Submissions) > 0 {
		latest := latestSubmission(ev.Submissions)
		score := latest.ScorePercent
		passed := latest.Passed
		row.LastQuizScore = &score
		row.LastQuizPassed = &passed
	}

	lastPassed := row.LastQuizPassed != nil && *row.LastQuizPassed
	row.Completed = lastPassed || (row.LastAttendedAt != nil && !ev.HasQuiz)

	if !row.Completed {
		anyFailed := false
		for _, sub := range ev.Submissions {
			if !sub.Passed {
				anyFailed = true
				break
			}
		}
		row.InProgress = anyFailed || (anyAttended && hasUnpassedQuiz(ev))
	}

	return row
}

// latestSubmission picks by submitted_at, ties broken by highest id.
func latestSubmission(subs []model.QuizSubmission) model.QuizSubmission {
	sorted := make([]model.QuizSubmission, len(subs))
	copy(sorted, subs)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].SubmittedAt.Equal(sorted[j].SubmittedAt) {
			return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted[0]
}

// hasUnpassedQuiz reports whether any quiz of the program has no passing
// submission from this user.
func hasUnpassedQuiz(ev model.ProgramEvidence) bool {
	passed := make(map[uint]bool)
	for _, sub := range ev.Submissions {
		if sub.Passed {
			passed[sub.QuizID] = true
		}
	}
	for _, q := range ev.Quizzes {
		if !passed[q.ID] {
			return true
		}
	}
	return false
}
