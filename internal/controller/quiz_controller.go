package controller

import (
	"strconv"

	"foodsafe_backend/internal/service"
	"foodsafe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Quizzes *service.QuizService
	Scoring *service.ScoringService
}

func NewQuizController(quizzes *service.QuizService, scoring *service.ScoringService) *QuizController {
	return &QuizController{Quizzes: quizzes, Scoring: scoring}
}

// @Summary Create a draft quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateQuizRequest true "Quiz details"
// @Success 201 {object} util.Response
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Quizzes.CreateQuiz(req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary Add a question to a draft quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param body body service.AddQuestionRequest true "Question"
// @Success 201 {object} util.Response
// @Router /api/admin/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	var req service.AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Quizzes.AddQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Add an option to a question
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "Question ID"
// @Param body body service.AddOptionRequest true "Option"
// @Success 201 {object} util.Response
// @Router /api/admin/questions/{questionId}/options [post]
func (c *QuizController) AddOption(ctx *gin.Context) {
	var req service.AddOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	o, err := c.Quizzes.AddOption(util.MustParseUint(ctx.Param("questionId")), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, o)
}

// @Summary Publish a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id}/publish [post]
func (c *QuizController) Publish(ctx *gin.Context) {
	quiz, err := c.Quizzes.Publish(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary Quiz detail with answer keys
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	detail, err := c.Quizzes.GetQuiz(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Published quiz for taking, answer keys stripped
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetLearnerQuiz(ctx *gin.Context) {
	view, err := c.Quizzes.GetLearnerView(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param programId query int false "Filter by program"
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	programID := util.MustParseUint(ctx.Query("programId"))

	qs, total, err := c.Quizzes.ListQuizzes(page, limit, programID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: qs, Total: total, Page: page, Limit: limit})
}

// @Summary Submit quiz answers
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param body body service.SubmitRequest true "Answers keyed by question id"
// @Success 201 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.Scoring.Submit(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), user.UserID, req.Answers)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// @Summary Attempt history of the current user
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/submissions/me [get]
func (c *QuizController) ListMySubmissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	subs, err := c.Scoring.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// @Summary All attempts at a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id}/submissions [get]
func (c *QuizController) ListQuizSubmissions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	subs, total, err := c.Scoring.ListForQuiz(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: subs, Total: total, Page: page, Limit: limit})
}
