package controller

import (
	"errors"
	"net/http"

	"foodsafe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the domain error taxonomy onto HTTP statuses.
// Validation failures carry enough detail for the caller to correct the
// input; transient storage failures surface as 500 for the caller's own
// retry policy.
func handleServiceError(ctx *gin.Context, err error) {
	var incompleteQuiz *util.IncompleteQuizError
	var incompleteSubmission *util.IncompleteSubmissionError
	var hasDependents *util.HasDependentsError

	switch {
	case errors.Is(err, util.ErrProgramNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrCertificateNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidThreshold),
		errors.Is(err, util.ErrInvalidOption),
		errors.Is(err, util.ErrProgramFieldsEmpty),
		errors.Is(err, util.ErrSessionDateMissing):
		util.BadRequest(ctx, err.Error())
	case errors.As(err, &incompleteSubmission):
		ctx.JSON(http.StatusBadRequest, util.Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Data: gin.H{
				"missingQuestionIds": incompleteSubmission.MissingQuestionIDs,
				"unknownQuestionIds": incompleteSubmission.UnknownQuestionIDs,
			},
		})
	case errors.As(err, &incompleteQuiz):
		ctx.JSON(http.StatusUnprocessableEntity, util.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    gin.H{"questionIds": incompleteQuiz.QuestionIDs},
		})
	case errors.Is(err, util.ErrQuizLocked),
		errors.Is(err, util.ErrQuizNotPublished),
		errors.Is(err, util.ErrProgramCodeTaken),
		errors.Is(err, util.ErrProgramCodeFrozen),
		errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrConcurrencyConflict):
		util.Conflict(ctx, err.Error())
	case errors.As(err, &hasDependents):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
