package app

import (
	"baggage_quiz_backend/docs"
	"baggage_quiz_backend/internal/config"
	"baggage_quiz_backend/internal/middleware"
	"baggage_quiz_backend/internal/model"

	"baggage_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, repos.user), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerLearnerRoutes 学员接口。profile 只要登录即可，
// 测验和统计还要求账号已批准。
func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	approved := rg.Group("/")
	approved.Use(middleware.ApprovalMiddleware())
	{
		approved.GET("/levels", c.level.ListLevels)
		approved.GET("/levels/:level/questions", c.question.ListForLevel)

		quiz := approved.Group("/quiz")
		{
			quiz.GET("/start/:levelId", c.quiz.StartQuiz)
			quiz.POST("/submit", c.quiz.SubmitQuiz)
			quiz.GET("/stats", c.quiz.GetStats)
		}

		statistics := approved.Group("/statistics")
		{
			statistics.GET("/general", c.statistics.GeneralStats)
			statistics.GET("/leaderboard", c.statistics.Leaderboard)
			statistics.GET("/performance", c.statistics.MyPerformance)
			statistics.GET("/levels", c.statistics.LevelStats)
		}
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		users := admin.Group("/users")
		{
			users.GET("", c.user.ListUsers)
			users.POST("/:id/approve", c.user.ApproveUser)
			users.POST("/:id/disapprove", c.user.DisapproveUser)
			users.POST("/:id/block", c.user.BlockUser)
			users.PUT("/:id/password", c.user.ChangePassword)
			users.DELETE("/:id", c.user.DeleteUser)
		}

		levels := admin.Group("/levels")
		{
			levels.GET("", c.level.ListLevelsAdmin)
			levels.POST("", c.level.CreateLevel)
			levels.GET("/:id", c.level.GetLevel)
			levels.PUT("/:id", c.level.UpdateLevel)
			levels.PATCH("/:id/toggle", c.level.ToggleLevel)
			levels.DELETE("/:id", c.level.DeleteLevel)
		}

		questions := admin.Group("/questions")
		{
			questions.GET("", c.question.ListQuestions)
			questions.GET("/dirty-reasons", c.question.DirtyReasons)
			questions.POST("", c.question.CreateQuestion)
			questions.GET("/:id", c.question.GetQuestion)
			questions.PUT("/:id", c.question.UpdateQuestion)
			questions.PATCH("/:id/toggle", c.question.ToggleQuestion)
			questions.DELETE("/:id", c.question.DeleteQuestion)
		}

		admin.GET("/statistics/users/:id", c.statistics.UserPerformance)
	}
}
