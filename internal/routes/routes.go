package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/onarrival/onarrival/internal/auth"
	"github.com/onarrival/onarrival/internal/handlers"
	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/ratelimit"
)

// AlertQuota caps alert dispatches per key per window, on top of the key's
// own request quota.
type AlertQuota struct {
	PerWindow int
	Window    time.Duration
}

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	guard *auth.RequestGuard,
	limiter *ratelimit.Limiter,
	alertQuota AlertQuota,
	authHandler *handlers.AuthHandler,
	groupHandler *handlers.GroupHandler,
	alertHandler *handlers.AlertHandler,
) {
	// Token issuance authenticates inline and carries its own rate limit
	router.Post("/auth/token", authHandler.IssueToken)

	// Everything under /api goes through the request guard
	router.Route("/api", func(r chi.Router) {
		r.With(auth.Require(guard, models.PermissionViewGroups)).
			Get("/groups", groupHandler.List)

		r.With(auth.Require(guard, models.PermissionManageGroups)).
			Post("/groups", groupHandler.Create)
		r.With(auth.Require(guard, models.PermissionManageGroups)).
			Delete("/groups/{name}", groupHandler.Delete)

		r.With(auth.Require(guard, models.PermissionManageContacts)).
			Post("/groups/{name}/contacts", groupHandler.AddContact)
		r.With(auth.Require(guard, models.PermissionManageContacts)).
			Delete("/groups/{name}/contacts/{phone}", groupHandler.RemoveContact)

		// Alert dispatch carries a class quota in addition to the key quota
		alertLimit := auth.ClassLimit(limiter, "alerts", alertQuota.PerWindow, alertQuota.Window)
		r.With(auth.Require(guard, models.PermissionSendAlerts), alertLimit).
			Post("/send_business", alertHandler.SendBusiness)
		r.With(auth.Require(guard, models.PermissionSendAlerts), alertLimit).
			Post("/send_leisure", alertHandler.SendLeisure)
	})
}
