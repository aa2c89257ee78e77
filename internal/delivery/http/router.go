package http

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"ticketbooth/internal/delivery/http/controllers"
	"ticketbooth/internal/delivery/http/helpers"
	"ticketbooth/internal/delivery/http/middleware"
	"ticketbooth/internal/domain"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Events       *controllers.EventController
	Bookings     *controllers.BookingController
	Verification *controllers.VerificationController
	Admin        *controllers.AdminController
	Auth         *controllers.AuthController
	Verifier     domain.TokenVerifier
	Cache        *redis.Client
	CacheTTL     time.Duration
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(deps.Verifier)
	cached := middleware.CacheGET(deps.Cache, deps.CacheTTL)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public surface
	mux.HandleFunc("GET /events", cached(deps.Events.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", deps.Events.GetEvent)
	mux.HandleFunc("POST /bookings", deps.Bookings.CreateBooking)
	mux.HandleFunc("GET /bookings", deps.Bookings.ListBookings)
	mux.HandleFunc("GET /bookings/{bookingID}", deps.Bookings.GetBooking)

	// Auth
	mux.HandleFunc("POST /admin/auth", deps.Auth.Login)

	// Admin surface
	mux.HandleFunc("GET /admin/events", requireAuth(deps.Admin.ListEvents))
	mux.HandleFunc("POST /admin/events", requireAuth(deps.Admin.CreateEvent))
	mux.HandleFunc("GET /admin/events/{eventID}", requireAuth(deps.Admin.GetEvent))
	mux.HandleFunc("PUT /admin/events/{eventID}", requireAuth(deps.Admin.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", requireAuth(deps.Admin.DeleteEvent))
	mux.HandleFunc("POST /verify-ticket", requireAuth(deps.Verification.VerifyTicket))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
