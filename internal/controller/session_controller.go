package controller

import (
	"strconv"

	"foodsafe_backend/internal/service"
	"foodsafe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Service *service.SessionService
}

func NewSessionController(svc *service.SessionService) *SessionController {
	return &SessionController{Service: svc}
}

// @Summary Schedule a training session
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SessionRequest true "Session details"
// @Success 201 {object} util.Response
// @Router /api/admin/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req service.SessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sess, err := c.Service.CreateSession(req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, sess)
}

// @Summary Update a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Param body body service.SessionRequest true "Fields to update"
// @Success 200 {object} util.Response
// @Router /api/admin/sessions/{id} [put]
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	var req service.SessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sess, err := c.Service.UpdateSession(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sess)
}

// @Summary Get a session
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	sess, err := c.Service.GetSession(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sess)
}

// @Summary List sessions
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param programId query int false "Filter by program"
// @Success 200 {object} util.Response
// @Router /api/sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	programID := util.MustParseUint(ctx.Query("programId"))

	ss, total, err := c.Service.ListSessions(page, limit, programID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: ss, Total: total, Page: page, Limit: limit})
}

// @Summary Delete a session and its evidence
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/admin/sessions/{id} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	if err := c.Service.DeleteSession(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Mark attendance for a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Param body body service.MarkAttendanceRequest true "Attendance"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/attendance [post]
func (c *SessionController) MarkAttendance(ctx *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.Service.MarkAttendance(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary List attendance of a session
// @Tags sessions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/attendance [get]
func (c *SessionController) ListAttendance(ctx *gin.Context) {
	as, err := c.Service.ListAttendance(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, as)
}
