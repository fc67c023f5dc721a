package service

import (
	"testing"
	"time"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// a second connection to :memory: would see an empty database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Program{},
		&model.TrainingSession{},
		&model.Attendance{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizOption{},
		&model.QuizSubmission{},
		&model.Certificate{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testEnv wires every service against one shared database, no redis.
type testEnv struct {
	db           *gorm.DB
	programs     *ProgramService
	sessions     *SessionService
	quizzes      *QuizService
	scoring      *ScoringService
	matrix       *MatrixService
	certificates *CertificateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	programRepo := repository.NewProgramRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	matrix := NewMatrixService(programRepo, sessionRepo, attendanceRepo, quizRepo, submissionRepo, certificateRepo, nil, 0)

	return &testEnv{
		db:           db,
		programs:     NewProgramService(programRepo, matrix),
		sessions:     NewSessionService(sessionRepo, attendanceRepo, certificateRepo, programRepo, matrix),
		quizzes:      NewQuizService(quizRepo, programRepo, db, matrix),
		scoring:      NewScoringService(quizRepo, submissionRepo, matrix),
		matrix:       matrix,
		certificates: NewCertificateService(certificateRepo, sessionRepo, nil, matrix),
	}
}

func strPtr(s string) *string { return &s }

func (e *testEnv) mustCreateProgram(t *testing.T, code, title string) *model.Program {
	t.Helper()
	p, err := e.programs.CreateProgram(ProgramRequest{Code: code, Title: strPtr(title)})
	if err != nil {
		t.Fatalf("create program %s: %v", code, err)
	}
	return p
}

func (e *testEnv) mustCreateSession(t *testing.T, programID uint) *model.TrainingSession {
	t.Helper()
	date := time.Now()
	sess, err := e.sessions.CreateSession(SessionRequest{ProgramID: programID, Date: &date})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess
}

func (e *testEnv) mustCreateDraftQuiz(t *testing.T, programID uint, threshold int) *model.Quiz {
	t.Helper()
	quiz, err := e.quizzes.CreateQuiz(CreateQuizRequest{ProgramID: programID, Title: "Hygiene basics", PassThreshold: threshold})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

// mustAddQuestion adds a question with one correct option followed by the
// given number of wrong options. Returns the question and its correct
// option id.
func (e *testEnv) mustAddQuestion(t *testing.T, quizID uint, orderIndex, wrongOptions int) (*model.QuizQuestion, uint) {
	t.Helper()
	q, err := e.quizzes.AddQuestion(quizID, AddQuestionRequest{Text: "question", OrderIndex: orderIndex})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	correct, err := e.quizzes.AddOption(q.ID, AddOptionRequest{Text: "right", IsCorrect: true})
	if err != nil {
		t.Fatalf("add correct option: %v", err)
	}
	for i := 0; i < wrongOptions; i++ {
		if _, err := e.quizzes.AddOption(q.ID, AddOptionRequest{Text: "wrong"}); err != nil {
			t.Fatalf("add wrong option: %v", err)
		}
	}
	return q, correct.ID
}

// quizFixtureQuestion pairs a question with one correct and one wrong
// option id for building answer maps in tests.
type quizFixtureQuestion struct {
	QuestionID      uint
	CorrectOptionID uint
	WrongOptionID   uint
}

// mustPublishQuiz builds a publishable quiz with n questions and returns the
// quiz plus each question's correct and one wrong option id, in order.
func (e *testEnv) mustPublishQuiz(t *testing.T, programID uint, threshold, n int) (*model.Quiz, []quizFixtureQuestion) {
	t.Helper()
	quiz := e.mustCreateDraftQuiz(t, programID, threshold)

	entries := make([]quizFixtureQuestion, 0, n)
	for i := 0; i < n; i++ {
		q, correctID := e.mustAddQuestion(t, quiz.ID, i, 1)

		var wrong model.QuizOption
		if err := e.db.Where("question_id = ? AND is_correct = ?", q.ID, false).First(&wrong).Error; err != nil {
			t.Fatalf("find wrong option: %v", err)
		}
		entries = append(entries, quizFixtureQuestion{QuestionID: q.ID, CorrectOptionID: correctID, WrongOptionID: wrong.ID})
	}

	published, err := e.quizzes.Publish(quiz.ID)
	if err != nil {
		t.Fatalf("publish quiz: %v", err)
	}
	return published, entries
}
