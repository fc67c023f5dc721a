package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/util"
	"foodsafe_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// ScoringService grades a learner's answers against a published quiz and
// persists the attempt. Submissions are append-only: every attempt creates
// a new row and prior rows are never touched, so the full attempt history
// stays auditable.
type ScoringService struct {
	Quizzes     *repository.QuizRepository
	Submissions *repository.SubmissionRepository
	Matrix      *MatrixService
}

func NewScoringService(quizzes *repository.QuizRepository, submissions *repository.SubmissionRepository, matrix *MatrixService) *ScoringService {
	return &ScoringService{Quizzes: quizzes, Submissions: submissions, Matrix: matrix}
}

type SubmitRequest struct {
	Answers model.AnswerMap `json:"answers" binding:"required"`
}

// Submit validates coverage (exactly one answer per question, no extras),
// checks each chosen option belongs to its question, computes the score and
// stores an immutable submission.
//
// score = 100 × correct / total, rounded to one decimal half-to-even;
// passed is inclusive of the threshold boundary.
func (s *ScoringService) Submit(ctx context.Context, quizID, userID uint, answers model.AnswerMap) (*model.QuizSubmission, error) {
	quiz, err := s.Quizzes.FindQuizByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	questions, err := s.Quizzes.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uint, len(questions))
	questionSet := make(map[uint]bool, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
		questionSet[q.ID] = true
	}

	var missing, unknown []uint
	for _, q := range questions {
		if _, ok := answers[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	for qid := range answers {
		if !questionSet[qid] {
			unknown = append(unknown, qid)
		}
	}
	if len(missing) > 0 || len(unknown) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
		return nil, &util.IncompleteSubmissionError{MissingQuestionIDs: missing, UnknownQuestionIDs: unknown}
	}

	options, err := s.Quizzes.ListOptionsByQuestionIDs(s.Quizzes.DB, questionIDs)
	if err != nil {
		return nil, err
	}
	// option id -> owning question, and the correct option per question
	optionOwner := make(map[uint]uint, len(options))
	correctOption := make(map[uint]uint, len(questions))
	for _, o := range options {
		optionOwner[o.ID] = o.QuestionID
		if o.IsCorrect {
			correctOption[o.QuestionID] = o.ID
		}
	}

	correct := 0
	for qid, oid := range answers {
		if optionOwner[oid] != qid {
			return nil, util.ErrInvalidOption
		}
		if correctOption[qid] == oid {
			correct++
		}
	}

	score := RoundScore(100 * float64(correct) / float64(len(questions)))
	passed := score >= float64(quiz.PassThreshold)

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	submission := &model.QuizSubmission{
		QuizID:       quizID,
		UserID:       userID,
		Answers:      raw,
		ScorePercent: score,
		Passed:       passed,
		SubmittedAt:  time.Now(),
	}
	if err := s.Submissions.Create(submission); err != nil {
		return nil, err
	}

	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissionCounter.WithLabelValues(outcome).Inc()

	if s.Matrix != nil {
		s.Matrix.InvalidateUser(ctx, userID)
	}

	return submission, nil
}

// ListForUser returns the user's full attempt history, newest first.
func (s *ScoringService) ListForUser(userID uint) ([]model.QuizSubmission, error) {
	return s.Submissions.ListByUser(userID)
}

// ListForQuiz pages through every attempt at one quiz for audit review.
func (s *ScoringService) ListForQuiz(quizID uint, page, limit int) ([]model.QuizSubmission, int64, error) {
	if _, err := s.Quizzes.FindQuizByID(quizID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, util.ErrQuizNotFound
		}
		return nil, 0, err
	}
	return s.Submissions.ListByQuiz(quizID, page, limit)
}

// RoundScore rounds a percentage to one decimal place using
// round-half-to-even, keeping scores deterministic across platforms.
func RoundScore(p float64) float64 {
	return math.RoundToEven(p*10) / 10
}
