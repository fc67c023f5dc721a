package controller

import (
	"strconv"

	"foodsafe_backend/internal/service"
	"foodsafe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgramController struct {
	Service *service.ProgramService
}

func NewProgramController(svc *service.ProgramService) *ProgramController {
	return &ProgramController{Service: svc}
}

// @Summary Create a training program
// @Tags programs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProgramRequest true "Program details"
// @Success 201 {object} util.Response
// @Router /api/admin/programs [post]
func (c *ProgramController) CreateProgram(ctx *gin.Context) {
	var req service.ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Service.CreateProgram(req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

// @Summary Update a training program
// @Tags programs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Param body body service.ProgramRequest true "Fields to update"
// @Success 200 {object} util.Response
// @Router /api/admin/programs/{id} [put]
func (c *ProgramController) UpdateProgram(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req service.ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Service.UpdateProgram(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary Get a program
// @Tags programs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /api/programs/{id} [get]
func (c *ProgramController) GetProgram(ctx *gin.Context) {
	p, err := c.Service.GetProgram(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary List programs
// @Tags programs
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response
// @Router /api/programs [get]
func (c *ProgramController) ListPrograms(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	ps, total, err := c.Service.ListPrograms(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: ps, Total: total, Page: page, Limit: limit})
}

// @Summary Delete a program without dependents
// @Tags programs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /api/admin/programs/{id} [delete]
func (c *ProgramController) DeleteProgram(ctx *gin.Context) {
	if err := c.Service.DeleteProgram(util.MustParseUint(ctx.Param("id"))); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Archive a program
// @Tags programs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Program ID"
// @Success 200 {object} util.Response
// @Router /api/admin/programs/{id}/archive [post]
func (c *ProgramController) ArchiveProgram(ctx *gin.Context) {
	if err := c.Service.ArchiveProgram(util.MustParseUint(ctx.Param("id"))); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
