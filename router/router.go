package router

import (
	"github.com/labstack/echo/v4"

	activityCtrl "farmadvisor/pkg/activity/controllerImp"
	advisoryCtrl "farmadvisor/pkg/advisory/controllerImp"
	healthCtrl "farmadvisor/pkg/health/controllerImp"
	knowledgeCtrl "farmadvisor/pkg/knowledge/controllerImp"
	"farmadvisor/pkg/middleware"
	reminderCtrl "farmadvisor/pkg/reminder/controllerImp"
	userCtrl "farmadvisor/pkg/user/controllerImp"
)

func New(
	e *echo.Echo,
	adv *advisoryCtrl.AdvisoryCtrl,
	rem *reminderCtrl.ReminderCtrl,
	kn *knowledgeCtrl.KnowledgeCtrl,
	usr *userCtrl.UserCtrl,
	act *activityCtrl.ActivityCtrl,
	health *healthCtrl.HealthCtrl,
) *echo.Echo {
	e.Use(middleware.DevLogin())
	e.GET("/health", health.Health)

	// Advisories
	a := e.Group("/advisories")
	a.POST("", adv.Create)
	a.PUT("/bulk/status", adv.BulkStatus)
	a.DELETE("/cleanup/expired", adv.CleanupExpired)
	a.GET("/admin/effectiveness", adv.Effectiveness)
	a.POST("/templates/:templateType", adv.FromTemplate)
	a.GET("/user/:userId", adv.ListByUser)
	a.GET("/user/:userId/active", adv.Active)
	a.GET("/user/:userId/urgent", adv.Urgent)
	a.GET("/user/:userId/stats", adv.Stats)
	a.GET("/user/:userId/recommendations", adv.Recommendations)
	a.GET("/user/:userId/offline-export", adv.OfflineExport)
	a.POST("/user/:userId/generate", adv.Generate)
	a.GET("/:id", adv.Get)
	a.PUT("/:id/status", adv.UpdateStatus)
	a.POST("/:id/feedback", adv.AddFeedback)
	a.GET("/:id/action-plan", adv.ActionPlan)

	// Reminders + notifications
	r := e.Group("/reminders")
	r.POST("", rem.Create)
	r.GET("/active", rem.Active)
	r.GET("/upcoming", rem.Upcoming)
	r.POST("/crop", rem.CreateForCrop)
	r.POST("/check", rem.CheckNow)
	r.GET("/:id", rem.Get)
	r.PUT("/:id", rem.Update)
	r.DELETE("/:id", rem.Delete)
	r.PATCH("/:id/toggle", rem.Toggle)
	e.GET("/notifications/unread", rem.UnreadNotifications)
	e.PATCH("/notifications/:id/read", rem.MarkRead)
	e.PATCH("/notifications/:id/actioned", rem.MarkActioned)

	// Knowledge
	k := e.Group("/knowledge")
	k.GET("/season", kn.Season)
	k.GET("/crops/suitable", kn.SuitableCrops)
	k.GET("/crops/:crop/calendar", kn.Calendar)
	k.GET("/crops/:crop/pests", kn.Pests)
	k.GET("/crops/:crop/stage", kn.Stage)
	k.GET("/practices/:activity", kn.Practices)
	k.GET("/search", kn.Search)
	k.POST("/ingest/url", kn.IngestURL)

	// Users
	u := e.Group("/users")
	u.POST("", usr.Create)
	u.POST("/auth", usr.Auth)
	u.GET("/admin/stats", usr.AdminStats)
	u.GET("/admin/export", usr.AdminExport)
	u.GET("/location", usr.ByLocation)
	u.PUT("/bulk", usr.BulkUpdate)
	u.GET("/:id", usr.Get)
	u.PUT("/:id", usr.Update)
	u.DELETE("/:id", usr.Delete)

	// Activities
	ac := e.Group("/activities")
	ac.POST("", act.Create)
	ac.PUT("/bulk/status", act.BulkStatus)
	ac.GET("/user/:userId", act.ListByUser)
	ac.GET("/user/:userId/stats", act.Stats)
	ac.GET("/user/:userId/upcoming", act.Upcoming)
	ac.GET("/user/:userId/overdue", act.Overdue)
	ac.GET("/user/:userId/export", act.Export)
	ac.GET("/user/:userId/insights", act.Insights)
	ac.GET("/:id", act.Get)
	ac.PUT("/:id", act.Update)
	ac.DELETE("/:id", act.Delete)
	ac.POST("/:id/issues", act.AddIssue)
	ac.POST("/:id/attachments", act.AddAttachment)

	return e
}
