package handlers

import (
	"net/http"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/models"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API under /api. loginLimiter throttles the
// credential endpoints per client IP.
func (h *Handler) RegisterRoutes(e *echo.Echo, loginLimiter *middleware.RateLimiter) {
	api := e.Group("/api")
	api.GET("/health", h.Health)

	// Public routes
	public := api.Group("/auth", loginLimiter.Middleware())
	public.POST("/register", h.RegisterUser)
	public.POST("/login", h.Login)

	// Protected routes
	protected := api.Group("", middleware.RequireAuth(h.Auth), middleware.ActorContext())
	admin := middleware.RequireRole(models.RoleAdmin)

	auth := protected.Group("/auth")
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)
	auth.PUT("/profile", h.UpdateProfile)
	auth.PUT("/password", h.ChangePassword)
	auth.GET("/security-alerts", h.SecurityAlerts, admin)

	// Viewers may read every resource below but change none of it.
	records := protected.Group("", middleware.RequireWrite())

	lawyers := records.Group("/lawyers")
	lawyers.GET("", h.ListLawyers)
	lawyers.POST("", h.CreateLawyer)
	lawyers.GET("/:id", h.GetLawyer)
	lawyers.PUT("/:id", h.UpdateLawyer)
	lawyers.DELETE("/:id", h.DeleteLawyer, admin)

	clients := records.Group("/clients")
	clients.GET("", h.ListClients)
	clients.POST("", h.CreateClient)
	clients.GET("/:id", h.GetClient)
	clients.PUT("/:id", h.UpdateClient)
	clients.DELETE("/:id", h.DeleteClient)

	tribunals := records.Group("/tribunals")
	tribunals.GET("", h.ListTribunals)
	tribunals.POST("", h.CreateTribunal)
	tribunals.GET("/judges", h.ListJudges)
	tribunals.POST("/judges", h.CreateJudge)
	tribunals.GET("/judges/:id", h.GetJudge)
	tribunals.PUT("/judges/:id", h.UpdateJudge)
	tribunals.DELETE("/judges/:id", h.DeleteJudge)
	tribunals.GET("/:id", h.GetTribunal)
	tribunals.PUT("/:id", h.UpdateTribunal)
	tribunals.DELETE("/:id", h.DeleteTribunal)
	tribunals.GET("/:id/judges", h.ListJudges)

	cases := records.Group("/cases")
	cases.GET("", h.ListCases)
	cases.POST("", h.CreateCase)
	cases.GET("/stats", h.CaseOverview)
	cases.GET("/:id", h.GetCase)
	cases.PUT("/:id", h.UpdateCase)
	cases.DELETE("/:id", h.ArchiveCase)
	cases.GET("/:id/report", h.CaseReport)

	entries := records.Group("/time-entries")
	entries.GET("", h.ListTimeEntries)
	entries.POST("", h.CreateTimeEntry)
	entries.GET("/summary", h.TimeEntrySummary)
	entries.GET("/export", h.ExportTimeEntries)
	entries.GET("/:id", h.GetTimeEntry)
	entries.PUT("/:id", h.UpdateTimeEntry)
	entries.DELETE("/:id", h.DeleteTimeEntry)
	entries.POST("/:id/approve", h.ApproveTimeEntry, admin)
	entries.POST("/:id/reject", h.RejectTimeEntry, admin)
	entries.POST("/:id/invoice", h.InvoiceTimeEntry, admin)

	hearings := records.Group("/hearings")
	hearings.GET("", h.ListHearings)
	hearings.POST("", h.CreateHearing)
	hearings.GET("/upcoming", h.UpcomingHearings)
	hearings.GET("/calendar", h.HearingCalendar)
	hearings.GET("/:id", h.GetHearing)
	hearings.PUT("/:id", h.UpdateHearing)
	hearings.DELETE("/:id", h.DeleteHearing)

	documents := records.Group("/documents")
	documents.GET("", h.ListDocuments)
	documents.POST("", h.UploadDocuments)
	documents.GET("/stats", h.DocumentStats)
	documents.GET("/:id", h.GetDocument)
	documents.GET("/:id/download", h.DownloadDocument)
	documents.PUT("/:id", h.UpdateDocument)
	documents.DELETE("/:id", h.DeleteDocument)
	documents.DELETE("/:id/permanent", h.PurgeDocument, admin)

	dashboard := records.Group("/dashboard")
	dashboard.GET("", h.GetDashboard)
	dashboard.GET("/stats", h.DashboardStats)
	dashboard.GET("/cases-by-category", h.DashboardCasesByCategory)
	dashboard.GET("/monthly-hours", h.DashboardMonthlyHours)
	dashboard.GET("/recent-cases", h.DashboardRecentCases)
	dashboard.GET("/upcoming-hearings", h.DashboardUpcomingHearings)
	dashboard.GET("/recent-activity", h.DashboardActivity)
	dashboard.GET("/activities", h.ListActivities)
}

// Health reports liveness without touching the database.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: "ok", Data: map[string]string{"environment": h.cfg.Environment}})
}
