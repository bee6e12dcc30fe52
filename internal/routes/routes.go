package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tribefund/moderation-backend/internal/config"
	"github.com/tribefund/moderation-backend/internal/handlers"
	"github.com/tribefund/moderation-backend/internal/middleware"
	"github.com/tribefund/moderation-backend/internal/policy"
	"github.com/tribefund/moderation-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	users services.UserRepository,
	reportHandler *handlers.ReportHandler,
	sanctionHandler *handlers.SanctionHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no auth)
	api.Get("/health", healthHandler.Check)

	// Every authenticated route runs the account gate before anything
	// else; permission checks come after.
	protected := middleware.Protected(cfg)
	gate := middleware.AccountGate(users)

	// Report intake (any authenticated user), with a stricter limit.
	reportLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/reports", reportLimiter, protected, gate, reportHandler.Create)

	// Moderation queue (staff)
	mod := api.Group("/moderation", protected, gate, middleware.RequireMinRole(policy.RoleModerator))

	mod.Get("/reports", middleware.RequirePermission(policy.PermReportsView), reportHandler.List)
	mod.Get("/reports/:id", middleware.RequirePermission(policy.PermReportsView), reportHandler.Get)
	mod.Put("/reports/:id/assign", middleware.RequirePermission(policy.PermReportsProcess), reportHandler.Assign)
	mod.Put("/reports/:id/escalate", middleware.RequirePermission(policy.PermReportsProcess), reportHandler.Escalate)
	mod.Put("/reports/:id", middleware.RequirePermission(policy.PermReportsProcess), reportHandler.Process)

	mod.Post("/users/:id/warn", middleware.RequirePermission(policy.PermUsersWarn), sanctionHandler.Warn)
	mod.Delete("/users/:id/warnings", middleware.RequirePermission(policy.PermUsersWarn), sanctionHandler.RevokeWarning)
	mod.Post("/users/:id/suspend", middleware.RequirePermission(policy.PermUsersSuspend), sanctionHandler.Suspend)
	mod.Delete("/users/:id/suspend", middleware.RequirePermission(policy.PermUsersSuspend), sanctionHandler.Unsuspend)
	mod.Post("/users/:id/ban", middleware.RequirePermission(policy.PermUsersBan), sanctionHandler.Ban)
	mod.Delete("/users/:id/ban", middleware.RequirePermission(policy.PermUsersUnban), sanctionHandler.Unban)
	mod.Put("/users/:id/surveillance", middleware.RequirePermission(policy.PermUsersSurveil), sanctionHandler.Surveillance)

	mod.Get("/dashboard/at-risk", middleware.RequirePermission(policy.PermDashboardView), dashboardHandler.AtRiskUsers)
	mod.Get("/audit", middleware.RequirePermission(policy.PermAuditView), dashboardHandler.AuditTrail)
}
