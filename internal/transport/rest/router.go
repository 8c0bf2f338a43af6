package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/rs/cors"

	"github.com/frahmantamala/civic-issue-tracker/internal"
	"github.com/frahmantamala/civic-issue-tracker/internal/auth"
	"github.com/frahmantamala/civic-issue-tracker/internal/comment"
	"github.com/frahmantamala/civic-issue-tracker/internal/issue"
	"github.com/frahmantamala/civic-issue-tracker/internal/payment"
	"github.com/frahmantamala/civic-issue-tracker/internal/stats"
	"github.com/frahmantamala/civic-issue-tracker/internal/timeline"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport/middleware"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport/swagger"
	"github.com/frahmantamala/civic-issue-tracker/internal/user"
)

// Handlers groups every HTTP handler the router mounts. A nil handler leaves its routes unmounted.
type Handlers struct {
	Resolver *auth.Resolver
	User     *user.Handler
	Issue    *issue.Handler
	Timeline *timeline.Handler
	Comment  *comment.Handler
	Payment  *payment.Handler
	Stats    *stats.Handler
	Swagger  *swagger.Docs
}

func RegisterAllRoutes(router chi.Router, db *sql.DB, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware)
	router.Use(cors.New(corsOptions(allowedOrigins)).Handler)
	router.Use(chiMiddleware.RealIP)

	router.Get("/health", healthHandler.livenessHandler)
	router.Get("/ready", healthHandler.readinessHandler)
	router.Get("/ping", healthHandler.pingHandler)

	if h.Swagger != nil {
		router.Get("/openapi.yml", h.Swagger.ServeSpec)
		router.Handle("/swagger/*", h.Swagger.UI())
	}

	// Public reads
	if h.Issue != nil {
		router.Get("/issues", h.Issue.ListIssues)
	}
	if h.Timeline != nil {
		router.Get("/timeline/{issueId}", h.Timeline.GetTimeline)
	}
	if h.Comment != nil {
		router.Get("/comments/{issueId}", h.Comment.ListComments)
	}
	if h.User != nil {
		router.Post("/users", h.User.Register)
	}

	if h.Resolver == nil {
		return
	}
	guard := h.Resolver

	router.Group(func(pr chi.Router) {
		pr.Use(guard.Authenticate)

		selfOrAdmin := guard.RequireFor(func(r *http.Request) []auth.Check {
			return []auth.Check{auth.RequireOwnerOrRole(transport.PathEmail(r, "email"), internal.RoleAdmin)}
		})
		self := guard.RequireFor(func(r *http.Request) []auth.Check {
			return []auth.Check{auth.RequireSelf(transport.PathEmail(r, "email"))}
		})
		admin := guard.Require(auth.RequireRole(internal.RoleAdmin))
		notBlocked := guard.Require(auth.RequireNotBlocked())

		if h.User != nil {
			pr.With(admin).Get("/users", h.User.ListUsers)
			pr.With(admin).Patch("/users/role/{email}", h.User.SetRole)
			pr.With(admin).Patch("/users/block/{email}", h.User.SetBlocked)
			pr.With(self).Patch("/users/premium/{email}", h.User.SetPremium)
			pr.With(selfOrAdmin).Get("/users/{email}", h.User.GetUser)
			pr.With(self).Patch("/users/{email}", h.User.UpdateProfile)
		}

		if h.Issue != nil {
			pr.With(notBlocked).Post("/issues", h.Issue.CreateIssue)
			pr.With(selfOrAdmin).Get("/issues/reporter/{email}", h.Issue.ListReporterIssues)
			pr.With(selfOrAdmin).Get("/issues/assigned/{email}", h.Issue.ListAssignedIssues)
			pr.With(admin).Patch("/issues/assign/{id}", h.Issue.AssignIssue)
			pr.Patch("/issues/upvote/{id}", h.Issue.UpvoteIssue)
			pr.Patch("/issues/edit/{id}", h.Issue.EditIssue)
			pr.Get("/issues/{id}", h.Issue.GetIssue)
			pr.Delete("/issues/{id}", h.Issue.DeleteIssue)
			pr.Patch("/issues/{id}/status", h.Issue.UpdateStatus)
			pr.With(admin).Patch("/issues/{id}/visibility", h.Issue.SetVisibility)
			pr.With(admin).Patch("/issues/{id}/priority", h.Issue.SetPriority)
		}

		if h.Comment != nil {
			pr.With(notBlocked).Post("/comments", h.Comment.CreateComment)
			pr.Delete("/comments/{id}", h.Comment.DeleteComment)
		}

		if h.Payment != nil {
			pr.With(notBlocked).Post("/issues/{id}/boost", h.Payment.BoostIssue)
			pr.Post("/create-payment-intent", h.Payment.CreatePaymentIntent)
			pr.Post("/payment/premium/verify", h.Payment.VerifyPremium)
			pr.With(admin).Get("/payments", h.Payment.ListPayments)
			pr.With(selfOrAdmin).Get("/payments/{email}", h.Payment.ListUserPayments)
		}

		if h.Stats != nil {
			pr.With(admin).Get("/dashboard/admin/stats", h.Stats.AdminStats)
			pr.With(selfOrAdmin).Get("/issues/citizen/stats/{email}", h.Stats.CitizenStats)
			pr.With(selfOrAdmin).Get("/issues/staff/stats/{email}", h.Stats.StaffStats)
		}
	})
}

// corsOptions allows credentialed calls from allowedOrigins. "*" admits any origin, echoed back so that
// browsers accept it alongside credentials.
func corsOptions(allowedOrigins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:       allowedOrigins,
		AllowedMethods:       []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:       []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:       []string{middleware.RequestIDHeader},
		AllowCredentials:     true,
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			opts.AllowedOrigins = nil
			opts.AllowOriginFunc = func(string) bool { return true }
			break
		}
	}
	return opts
}
