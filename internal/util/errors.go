package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrProgramNotFound     = errors.New("program not found")
	ErrSessionNotFound     = errors.New("training session not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrProgramCodeTaken    = errors.New("program code already in use")
	ErrProgramFieldsEmpty  = errors.New("program code and title are required")
	ErrSessionDateMissing  = errors.New("session date is required")
	ErrProgramCodeFrozen   = errors.New("program code cannot change once sessions reference it")
	ErrInvalidThreshold    = errors.New("pass threshold must be between 0 and 100")
	ErrQuizLocked          = errors.New("quiz is published and can no longer be edited")
	ErrQuizNotPublished    = errors.New("quiz is not published")
	ErrInvalidOption       = errors.New("selected option does not belong to the question")
	ErrConcurrencyConflict = errors.New("quiz row is locked by a concurrent operation, retry")
)

// IncompleteQuizError lists the questions that block a publish: fewer than
// two options, not exactly one correct option, or an order_index outside
// the contiguous 0-based sequence. An empty list means the quiz has no
// questions at all.
type IncompleteQuizError struct {
	QuestionIDs []uint
}

func (e *IncompleteQuizError) Error() string {
	return fmt.Sprintf("quiz cannot be published, offending questions: %v", e.QuestionIDs)
}

// IncompleteSubmissionError names the question ids an answer map failed to
// cover, plus any ids that do not belong to the quiz.
type IncompleteSubmissionError struct {
	MissingQuestionIDs []uint
	UnknownQuestionIDs []uint
}

func (e *IncompleteSubmissionError) Error() string {
	return fmt.Sprintf("submission does not cover the quiz question set, missing: %v, unknown: %v",
		e.MissingQuestionIDs, e.UnknownQuestionIDs)
}

// HasDependentsError rejects destructive deletion of a compliance artifact
// that still has dependent evidence.
type HasDependentsError struct {
	Resource   string
	Dependents string
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("%s still has dependent %s and cannot be deleted", e.Resource, e.Dependents)
}
