package model

import "time"

// TrainingMatrixRow is the derived per-user, per-program compliance summary.
// It is computed on demand and never persisted.
// swagger:model TrainingMatrixRow
type TrainingMatrixRow struct {
	ProgramID               uint       `json:"programId"`
	ProgramCode             string     `json:"programCode"`
	ProgramTitle            string     `json:"programTitle"`
	Completed               bool       `json:"completed"`
	InProgress              bool       `json:"inProgress"`
	LastAttendedAt          *time.Time `json:"lastAttendedAt,omitempty"`
	LastCertificateIssuedAt *time.Time `json:"lastCertificateIssuedAt,omitempty"`
	LastQuizScore           *float64   `json:"lastQuizScore,omitempty"`
	LastQuizPassed          *bool      `json:"lastQuizPassed,omitempty"`
}

// ProgramEvidence is everything the matrix builder gathers for one program
// and one user before reducing it to a row. HasQuiz distinguishes the
// program-without-quiz case explicitly so the completion rule stays
// exhaustive instead of relying on ad hoc nil checks.
type ProgramEvidence struct {
	Program     Program
	HasQuiz     bool
	Quizzes     []Quiz
	Attendance  []Attendance
	Submissions []QuizSubmission
	Certs       []Certificate
}
