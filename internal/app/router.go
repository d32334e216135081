package app

import (
	"github.com/jk08y/PyAIApp/docs"
	"github.com/jk08y/PyAIApp/internal/config"
	"github.com/jk08y/PyAIApp/internal/middleware"
	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（游客可访问，带 token 则注入用户）
	public := router.Group("/api")
	public.Use(middleware.TryAuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/subscription/plans", c.user.ListPlans)

		// 课程目录和详情对游客开放；课时正文由付费墙判定，
		// 免费课程和高级课程的第一课游客也能看
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:courseId", c.course.GetCourse)
		public.GET("/courses/:courseId/lessons/:lessonId", c.course.GetLesson)
		public.GET("/courses/:courseId/lessons/:lessonId/exercises/:exerciseId", c.course.GetExercise)
	}

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/me", c.auth.Me)

		authGroup.GET("/user/profile", c.user.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar", c.user.UploadAvatar)

		authGroup.POST("/subscription/subscribe", c.user.Subscribe)
		authGroup.POST("/subscription/cancel", c.user.CancelSubscription)

		authGroup.POST("/courses/:courseId/lessons/:lessonId/exercises/:exerciseId/submit", c.progress.SubmitExercise)

		authGroup.GET("/progress", c.progress.GetOverview)
		authGroup.GET("/progress/:courseId", c.progress.GetProgress)
		authGroup.PUT("/progress/:courseId", c.progress.UpdateProgress)

		authGroup.POST("/courses/:courseId/test/start", c.test.StartTest)
		authGroup.GET("/courses/:courseId/test/results", c.test.ListResults)
		authGroup.GET("/test-sessions/:sessionId", c.test.GetSession)
		authGroup.DELETE("/test-sessions/:sessionId", c.test.CancelTest)
		authGroup.POST("/test-sessions/:sessionId/answer", c.test.AnswerQuestion)
		authGroup.POST("/test-sessions/:sessionId/submit", c.test.SubmitTest)
		authGroup.GET("/test-sessions/:sessionId/result", c.test.GetResult)
	}

	// 3. 管理端路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/courses", c.course.SaveCourse)
		admin.DELETE("/courses/:courseId", c.course.DeleteCourse)
		admin.POST("/tests", c.course.SaveTest)
		admin.POST("/courses/:courseId/lessons/:lessonId/sections/:sectionId/video", c.course.UploadSectionVideo)
	}
}
