package main

import (
	"github.com/gin-gonic/gin"

	"github.com/bytehub/bytehub/internal/config"
	"github.com/bytehub/bytehub/internal/handlers"
	"github.com/bytehub/bytehub/internal/middleware"
	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices, cfg *config.Config) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Tighter limit on the credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	db := models.GetDB()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "bytehub"})
	})

	api := r.Group("/api")
	{
		// Credential routes (public)
		auth := api.Group("", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		protected.Use(middleware.AuditLog())
		{
			// Profile
			protected.POST("/logout", svc.authHandler.Logout)
			protected.GET("/profile", svc.authHandler.Me)
			protected.PUT("/profile/update", svc.authHandler.UpdateProfile)
			protected.PUT("/profile/change-password", svc.authHandler.ChangePassword)

			// Directories for the invitation pickers
			userHandler := handlers.NewUserHandler(db)
			protected.GET("/students", userHandler.Students)
			protected.GET("/supervisors", userHandler.Supervisors)

			// Projects
			projectHandler := handlers.NewProjectHandler(db, svc.notifier)
			protected.GET("/projects", projectHandler.List)
			protected.POST("/project/create", projectHandler.Create)
			protected.GET("/project/:id", projectHandler.Get)
			protected.PUT("/project/update/:id", projectHandler.Update)
			protected.DELETE("/project/delete/:id", projectHandler.Delete)
			protected.GET("/project/:id/progress", projectHandler.Progress)
			protected.GET("/project/:id/members", projectHandler.Members)
			protected.DELETE("/project/:id/members/:studentId", projectHandler.RemoveMember)
			protected.POST("/project/:id/leave-supervision", projectHandler.LeaveSupervision)

			// Invitations
			invitationHandler := handlers.NewInvitationHandler(db, svc.notifier)
			protected.POST("/project/:id/invite-student", invitationHandler.InviteStudent)
			protected.GET("/project/:id/invitations", invitationHandler.ListProjectInvitations)
			protected.GET("/student/invitations", invitationHandler.MyInvitations)
			protected.POST("/student/invitations/:id/accept", invitationHandler.AcceptInvitation)
			protected.POST("/student/invitations/:id/reject", invitationHandler.RejectInvitation)
			protected.POST("/project/:id/invite-supervisor", invitationHandler.InviteSupervisor)
			protected.GET("/project/:id/supervisor-invitations", invitationHandler.ListProjectSupervisorInvitations)
			protected.GET("/supervisor/invitations", invitationHandler.MySupervisionRequests)
			protected.POST("/supervisor/invitations/:id/accept", invitationHandler.AcceptSupervision)
			protected.POST("/supervisor/invitations/:id/reject", invitationHandler.RejectSupervision)

			// Tasks
			taskHandler := handlers.NewTaskHandler(db, svc.notifier)
			protected.POST("/task/create", taskHandler.Create)
			protected.GET("/project/:id/tasks", taskHandler.List)
			protected.GET("/task/:id", taskHandler.Get)
			protected.PUT("/task/update/:id", taskHandler.Update)
			protected.DELETE("/task/delete/:id", taskHandler.Delete)

			// Comments
			commentHandler := handlers.NewCommentHandler(db, svc.notifier)
			protected.POST("/project/:id/comment", commentHandler.CreateOnProject)
			protected.GET("/project/:id/comments", commentHandler.ListForProject)
			protected.POST("/task/:id/comment", commentHandler.CreateOnTask)
			protected.GET("/task/:id/comments", commentHandler.ListForTask)
			protected.PUT("/comment/:id", commentHandler.Update)
			protected.DELETE("/comment/:id", commentHandler.Delete)

			// Ratings
			ratingHandler := handlers.NewRatingHandler(db)
			protected.POST("/project/:id/rate", ratingHandler.Create)
			protected.GET("/project/:id/ratings", ratingHandler.List)
			protected.DELETE("/project/:id/ratings", ratingHandler.Delete)

			// Versions
			versionHandler := handlers.NewVersionHandler(db, svc.notifier, cfg.Storage.UploadDir)
			protected.POST("/project/:id/versions/upload", versionHandler.Upload)
			protected.GET("/project/:id/versions", versionHandler.List)
			protected.GET("/project/:id/versions/timeline", versionHandler.Timeline)
			protected.GET("/project/:id/versions/:versionId", versionHandler.Get)
			protected.PUT("/project/versions/:versionId", versionHandler.Update)
			protected.GET("/project/versions/:versionId/download", versionHandler.Download)
			protected.DELETE("/project/versions/:versionId", versionHandler.Delete)

			// GitHub commit sync
			githubHandler := handlers.NewGitHubHandler(db, cfg)
			protected.POST("/project/:id/sync-commits", githubHandler.Sync)
			protected.GET("/project/:id/commits", githubHandler.ListCommits)

			// Notifications
			notificationHandler := handlers.NewNotificationHandler(db)
			protected.GET("/notifications", notificationHandler.List)
			protected.GET("/notifications/unread", notificationHandler.Unread)
			protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			protected.POST("/notifications/mark-all-read", notificationHandler.MarkAllAsRead)
			protected.POST("/notifications/mark-read/:id", notificationHandler.MarkAsRead)
			protected.DELETE("/notifications/:id", notificationHandler.Delete)
			protected.DELETE("/notifications", notificationHandler.DeleteAll)

			// Admin
			admin := protected.Group("")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("/users", userHandler.List)
				admin.PUT("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)

				systemLogHandler := handlers.NewSystemLogHandler(db)
				admin.GET("/system-logs", systemLogHandler.List)
				admin.GET("/system-logs/modules", systemLogHandler.Modules)
			}
		}
	}
}
