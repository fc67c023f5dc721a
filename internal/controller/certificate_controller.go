package controller

import (
	"foodsafe_backend/internal/service"
	"foodsafe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Certificates *service.CertificateService
}

func NewCertificateController(certificates *service.CertificateService) *CertificateController {
	return &CertificateController{Certificates: certificates}
}

// @Summary Issue a certificate for a session participant
// @Tags certificates
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Param body body service.IssueCertificateRequest true "Certificate details"
// @Success 201 {object} util.Response
// @Router /api/admin/sessions/{id}/certificates [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	var req service.IssueCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cert, err := c.Certificates.Issue(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, cert)
}

// @Summary Issue a certificate with a scanned document upload
// @Tags certificates
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Param userId formData int true "User ID"
// @Param file formData file true "Certificate document"
// @Success 201 {object} util.Response
// @Router /api/admin/sessions/{id}/certificates/upload [post]
func (c *CertificateController) IssueWithUpload(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.PostForm("userId"))
	if userID == 0 {
		util.BadRequest(ctx, "userId is required")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "certificate file is required")
		return
	}

	cert, err := c.Certificates.IssueWithUpload(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")), userID, file)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, cert)
}

// @Summary Verify a certificate by its verification code
// @Tags certificates
// @Produce json
// @Param code path string true "Verification code"
// @Success 200 {object} util.Response
// @Router /api/verify/{code} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	cert, err := c.Certificates.Verify(ctx.Param("code"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// @Summary Certificates of the current user
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/certificates/me [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.Certificates.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// @Summary Certificates issued for a session
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Session ID"
// @Success 200 {object} util.Response
// @Router /api/admin/sessions/{id}/certificates [get]
func (c *CertificateController) ListForSession(ctx *gin.Context) {
	certs, err := c.Certificates.ListForSession(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}
