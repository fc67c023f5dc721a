package service

import (
	"context"
	"sort"
	"strings"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/util"

	"gorm.io/gorm"
)

// QuizService owns quiz authoring: drafts are freely editable, publish
// validates the full question set under an exclusive quiz-row lock, and a
// published quiz is immutable forever.
type QuizService struct {
	Repo     *repository.QuizRepository
	Programs *repository.ProgramRepository
	DB       *gorm.DB
	Matrix   *MatrixService
}

func NewQuizService(repo *repository.QuizRepository, programs *repository.ProgramRepository, db *gorm.DB, matrix *MatrixService) *QuizService {
	return &QuizService{Repo: repo, Programs: programs, DB: db, Matrix: matrix}
}

// invalidateMatrices: the quiz set of a program changes the completion rule
// for every user, so authoring writes bump the shared cache version.
func (s *QuizService) invalidateMatrices() {
	if s.Matrix != nil {
		s.Matrix.InvalidateAll(context.Background())
	}
}

type CreateQuizRequest struct {
	ProgramID     uint   `json:"programId" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	PassThreshold int    `json:"passThreshold"`
}

type AddQuestionRequest struct {
	Text       string `json:"text" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

type AddOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizDetail is the authoring view, correct answers included.
type QuizDetail struct {
	Quiz      model.Quiz       `json:"quiz"`
	Questions []QuestionDetail `json:"questions"`
}

type QuestionDetail struct {
	model.QuizQuestion
	Options []model.QuizOption `json:"options"`
}

func (s *QuizService) CreateQuiz(req CreateQuizRequest) (*model.Quiz, error) {
	if req.PassThreshold < 0 || req.PassThreshold > 100 {
		return nil, util.ErrInvalidThreshold
	}

	if _, err := s.Programs.FindByID(req.ProgramID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrProgramNotFound
		}
		return nil, err
	}

	quiz := &model.Quiz{
		ProgramID:     req.ProgramID,
		Title:         req.Title,
		Description:   req.Description,
		PassThreshold: req.PassThreshold,
	}
	if err := s.Repo.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	s.invalidateMatrices()
	return quiz, nil
}

// AddQuestion appends a question to a draft quiz. The quiz row is locked so
// a concurrent publish cannot validate a half-written question set.
func (s *QuizService) AddQuestion(quizID uint, req AddQuestionRequest) (*model.QuizQuestion, error) {
	var question *model.QuizQuestion

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		quiz, err := s.Repo.FindQuizForUpdate(tx, quizID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.ErrQuizNotFound
			}
			return err
		}
		if quiz.IsPublished {
			return util.ErrQuizLocked
		}

		question = &model.QuizQuestion{
			QuizID:     quizID,
			Text:       req.Text,
			OrderIndex: req.OrderIndex,
		}
		return s.Repo.CreateQuestion(tx, question)
	})

	if err != nil {
		return nil, mapLockError(err)
	}
	return question, nil
}

// AddOption appends an option to a question of a draft quiz, locking the
// owning quiz row for the same reason as AddQuestion.
func (s *QuizService) AddOption(questionID uint, req AddOptionRequest) (*model.QuizOption, error) {
	question, err := s.Repo.FindQuestionByID(questionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	var option *model.QuizOption

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		quiz, err := s.Repo.FindQuizForUpdate(tx, question.QuizID)
		if err != nil {
			return err
		}
		if quiz.IsPublished {
			return util.ErrQuizLocked
		}

		option = &model.QuizOption{
			QuestionID: questionID,
			Text:       req.Text,
			IsCorrect:  req.IsCorrect,
		}
		return s.Repo.CreateOption(tx, option)
	})

	if err != nil {
		return nil, mapLockError(err)
	}
	return option, nil
}

// Publish validates the quiz against a consistent snapshot of its questions
// and options, then flips IsPublished. Requirements: at least one question,
// every question has two or more options, exactly one correct option per
// question, and order_index values form a contiguous 0-based sequence.
// Failure leaves the quiz a draft and names the offending questions.
func (s *QuizService) Publish(quizID uint) (*model.Quiz, error) {
	var published *model.Quiz

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		quiz, err := s.Repo.FindQuizForUpdate(tx, quizID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.ErrQuizNotFound
			}
			return err
		}
		if quiz.IsPublished {
			return util.ErrQuizLocked
		}

		questions, err := s.Repo.ListQuestionsTx(tx, quizID)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			return &util.IncompleteQuizError{}
		}

		questionIDs := make([]uint, len(questions))
		for i, q := range questions {
			questionIDs[i] = q.ID
		}
		options, err := s.Repo.ListOptionsByQuestionIDs(tx, questionIDs)
		if err != nil {
			return err
		}

		if offenders := validateQuestionSet(questions, options); len(offenders) > 0 {
			return &util.IncompleteQuizError{QuestionIDs: offenders}
		}

		now := tx.NowFunc()
		quiz.IsPublished = true
		quiz.PublishedAt = &now
		if err := s.Repo.SaveQuiz(tx, quiz); err != nil {
			return err
		}
		published = quiz
		return nil
	})

	if err != nil {
		return nil, mapLockError(err)
	}
	s.invalidateMatrices()
	return published, nil
}

// validateQuestionSet returns the ids of questions that block a publish.
// Order indexes within range and free of duplicates are necessarily the
// contiguous sequence 0..n-1.
func validateQuestionSet(questions []model.QuizQuestion, options []model.QuizOption) []uint {
	byQuestion := make(map[uint][]model.QuizOption)
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}

	offenderSet := make(map[uint]bool)
	seenIndex := make(map[int]bool)

	for _, q := range questions {
		opts := byQuestion[q.ID]
		if len(opts) < 2 {
			offenderSet[q.ID] = true
		}
		correct := 0
		for _, o := range opts {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			offenderSet[q.ID] = true
		}
		if q.OrderIndex < 0 || q.OrderIndex >= len(questions) || seenIndex[q.OrderIndex] {
			offenderSet[q.ID] = true
		}
		seenIndex[q.OrderIndex] = true
	}

	offenders := make([]uint, 0, len(offenderSet))
	for id := range offenderSet {
		offenders = append(offenders, id)
	}
	sort.Slice(offenders, func(i, j int) bool { return offenders[i] < offenders[j] })
	return offenders
}

func (s *QuizService) GetQuiz(quizID uint) (*QuizDetail, error) {
	quiz, err := s.Repo.FindQuizByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := s.Repo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionIDs[i] = q.ID
	}
	options, err := s.Repo.ListOptionsByQuestionIDs(s.Repo.DB, questionIDs)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uint][]model.QuizOption)
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}

	detail := &QuizDetail{Quiz: *quiz, Questions: make([]QuestionDetail, len(questions))}
	for i, q := range questions {
		detail.Questions[i] = QuestionDetail{QuizQuestion: q, Options: byQuestion[q.ID]}
	}
	return detail, nil
}

// LearnerOption hides the correct flag from quiz takers.
type LearnerOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type LearnerQuestion struct {
	ID         uint            `json:"id"`
	Text       string          `json:"text"`
	OrderIndex int             `json:"orderIndex"`
	Options    []LearnerOption `json:"options"`
}

type LearnerQuizView struct {
	ID            uint              `json:"id"`
	ProgramID     uint              `json:"programId"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	PassThreshold int               `json:"passThreshold"`
	Questions     []LearnerQuestion `json:"questions"`
}

// GetLearnerView returns a published quiz without answer keys; drafts are
// not takeable.
func (s *QuizService) GetLearnerView(quizID uint) (*LearnerQuizView, error) {
	detail, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if !detail.Quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	view := &LearnerQuizView{
		ID:            detail.Quiz.ID,
		ProgramID:     detail.Quiz.ProgramID,
		Title:         detail.Quiz.Title,
		Description:   detail.Quiz.Description,
		PassThreshold: detail.Quiz.PassThreshold,
		Questions:     make([]LearnerQuestion, len(detail.Questions)),
	}
	for i, q := range detail.Questions {
		lq := LearnerQuestion{
			ID:         q.ID,
			Text:       q.Text,
			OrderIndex: q.OrderIndex,
			Options:    make([]LearnerOption, len(q.Options)),
		}
		for j, o := range q.Options {
			lq.Options[j] = LearnerOption{ID: o.ID, Text: o.Text}
		}
		view.Questions[i] = lq
	}
	return view, nil
}

func (s *QuizService) ListQuizzes(page, limit int, programID uint) ([]model.Quiz, int64, error) {
	return s.Repo.ListQuizzes(page, limit, programID)
}

// mapLockError turns driver-level lock contention into the retryable
// conflict error; anything else passes through unmodified.
func mapLockError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "Lock wait timeout") || strings.Contains(msg, "Deadlock found") {
		return util.ErrConcurrencyConflict
	}
	return err
}
