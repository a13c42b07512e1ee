package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"sporthive/internal/delivery/http/controllers"
	"sporthive/internal/delivery/http/helpers"
	"sporthive/internal/delivery/http/middleware"
	"sporthive/internal/domain"
)

// RouterDeps are the collaborators the router wires into handlers.
type RouterDeps struct {
	Logger                 *slog.Logger
	Verifier               domain.TokenVerifier
	ActivityController     *controllers.ActivityController
	RegistrationController *controllers.RegistrationController
	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(deps.Verifier, deps.Logger)
	activities := deps.ActivityController
	registrations := deps.RegistrationController

	// Activities
	mux.HandleFunc("GET /api/activities", activities.ListActivities)
	mux.HandleFunc("GET /api/activities/search", activities.SearchActivities)
	mux.HandleFunc("GET /api/activities/{id}", activities.GetActivity)
	mux.HandleFunc("POST /api/activities", auth(activities.CreateActivity))
	mux.HandleFunc("PUT /api/activities/{id}", auth(activities.UpdateActivity))
	mux.HandleFunc("PUT /api/activities/{id}/pass", auth(activities.ApproveActivity))
	mux.HandleFunc("DELETE /api/activities/{id}", auth(activities.DeleteActivity))

	// Registrations
	mux.HandleFunc("POST /api/activities/{id}/register", auth(registrations.Register))
	mux.HandleFunc("DELETE /api/activities/{id}/cancel", auth(registrations.Withdraw))
	mux.HandleFunc("GET /api/activities/{id}/register", auth(registrations.GetRegistrationStatus))
	mux.HandleFunc("GET /api/activities/{id}/registration", registrations.ListParticipants)

	// Users
	mux.HandleFunc("GET /api/users/{id}/activities", activities.ListOrganizerActivities)
	mux.HandleFunc("GET /api/users/me/registrations", auth(registrations.ListMyRegistrations))

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
