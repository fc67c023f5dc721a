package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"foodsafe_backend/internal/service"
	"foodsafe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MatrixController struct {
	Matrix *service.MatrixService
	Export *service.ExportService
}

func NewMatrixController(matrix *service.MatrixService, export *service.ExportService) *MatrixController {
	return &MatrixController{Matrix: matrix, Export: export}
}

// @Summary Training matrix for the current user
// @Tags matrix
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/matrix/me [get]
func (c *MatrixController) GetMyMatrix(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.Matrix.BuildMatrix(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary Training matrix for any user
// @Tags matrix
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Success 200 {object} util.Response
// @Router /api/admin/matrix/{userId} [get]
func (c *MatrixController) GetUserMatrix(ctx *gin.Context) {
	rows, err := c.Matrix.BuildMatrix(ctx.Request.Context(), util.MustParseUint(ctx.Param("userId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary Export the current user's training matrix as xlsx or csv
// @Tags matrix
// @Produce application/octet-stream
// @Security ApiKeyAuth
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file
// @Router /api/matrix/me/export [get]
func (c *MatrixController) ExportMyMatrix(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	c.writeExport(ctx, user.UserID)
}

// @Summary Export a user's training matrix as xlsx or csv
// @Tags matrix
// @Produce application/octet-stream
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file
// @Router /api/admin/matrix/{userId}/export [get]
func (c *MatrixController) ExportUserMatrix(ctx *gin.Context) {
	c.writeExport(ctx, util.MustParseUint(ctx.Param("userId")))
}

func (c *MatrixController) writeExport(ctx *gin.Context, userID uint) {
	format := ctx.DefaultQuery("format", "xlsx")

	rows, err := c.Matrix.BuildMatrix(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := service.ExportFilename(userID, format)

	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := c.Export.MatrixCSV(&buf, rows); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		f, err := c.Export.MatrixXLSX(rows)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		util.BadRequest(ctx, "unsupported export format: "+format)
	}
}
