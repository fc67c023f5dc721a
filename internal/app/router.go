package app

import (
	"foodsafe_backend/docs"
	"foodsafe_backend/internal/config"
	"foodsafe_backend/internal/middleware"
	"foodsafe_backend/internal/model"
	"foodsafe_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerEmployeeRoutes(authGroup, c)
		a.registerTrainerRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// certificate verification is link-shareable, no login required
		public.GET("/verify/:code", c.certificate.Verify)
	}
}

func (a *App) registerEmployeeRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/programs", c.program.ListPrograms)
	rg.GET("/programs/:id", c.program.GetProgram)
	rg.GET("/sessions", c.session.ListSessions)
	rg.GET("/sessions/:id", c.session.GetSession)

	rg.GET("/quizzes", c.quiz.ListQuizzes)
	rg.GET("/quizzes/:id", c.quiz.GetLearnerQuiz)
	rg.POST("/quizzes/:id/submit", c.quiz.Submit)

	rg.GET("/submissions/me", c.quiz.ListMySubmissions)
	rg.GET("/matrix/me", c.matrix.GetMyMatrix)
	rg.GET("/matrix/me/export", c.matrix.ExportMyMatrix)
	rg.GET("/certificates/me", c.certificate.ListMine)
}

func (a *App) registerTrainerRoutes(rg *gin.RouterGroup, c *controllers) {
	trainer := rg.Group("/")
	trainer.Use(middleware.RoleMiddleware(model.Trainer))
	{
		trainer.POST("/sessions/:id/attendance", c.session.MarkAttendance)
		trainer.GET("/sessions/:id/attendance", c.session.ListAttendance)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)

		admin.POST("/programs", c.program.CreateProgram)
		admin.PUT("/programs/:id", c.program.UpdateProgram)
		admin.DELETE("/programs/:id", c.program.DeleteProgram)
		admin.POST("/programs/:id/archive", c.program.ArchiveProgram)

		admin.POST("/sessions", c.session.CreateSession)
		admin.PUT("/sessions/:id", c.session.UpdateSession)
		admin.DELETE("/sessions/:id", c.session.DeleteSession)

		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes/:id", c.quiz.GetQuiz)
		admin.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		admin.POST("/questions/:questionId/options", c.quiz.AddOption)
		admin.POST("/quizzes/:id/publish", c.quiz.Publish)
		admin.GET("/quizzes/:id/submissions", c.quiz.ListQuizSubmissions)

		admin.POST("/sessions/:id/certificates", c.certificate.Issue)
		admin.POST("/sessions/:id/certificates/upload", c.certificate.IssueWithUpload)
		admin.GET("/sessions/:id/certificates", c.certificate.ListForSession)

		admin.GET("/matrix/:userId", c.matrix.GetUserMatrix)
		admin.GET("/matrix/:userId/export", c.matrix.ExportUserMatrix)
	}
}
