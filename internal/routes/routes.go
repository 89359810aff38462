package routes

import (
	"net/http"
	"strings"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/internal/handlers/paymenttype"
	"github.com/ZerkerEOD/paytypes-backend/internal/upload"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/httputil"
	"github.com/gorilla/mux"
)

/*
 * Package routes handles the setup and configuration of all application routes.
 * It applies the CORS, logging and request limit middleware and mounts the
 * payment type resource.
 */

// Route prefixes
const (
	PaymentTypesPath = "/api/payment-types"
	UploadsPath      = "/uploads/"
	HealthPath       = "/health"
)

// Dependencies are the components the routes are built from
type Dependencies struct {
	Settings *config.Settings
	Store    paymenttype.Store
	Uploader *upload.Uploader
}

/*
 * SetupRoutes configures all application routes and middleware.
 *
 * Routes:
 *   - GET  /health
 *   - GET  /api/payment-types
 *   - POST /api/payment-types
 *   - GET  /uploads/... (stored images)
 *
 * Middleware Applied:
 *   - CORS middleware (all routes)
 *   - Request logging, body size and parameter limits (API routes)
 */
func SetupRoutes(r *mux.Router, deps Dependencies) {
	debug.Info("Initializing route configuration")

	r.Use(CORSMiddleware(deps.Settings.CORS))
	debug.Debug("Applied CORS middleware to all routes")

	r.HandleFunc(HealthPath, healthHandler).Methods(http.MethodGet, http.MethodOptions)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(loggingMiddleware)
	apiRouter.Use(BodyLimitMiddleware(deps.Settings.HTTP.MaxBodySize))
	apiRouter.Use(ParameterLimitMiddleware(deps.Settings.HTTP.ParameterLimit))

	SetupPaymentTypeRoutes(apiRouter, paymenttype.NewHandler(deps.Store, deps.Uploader))

	r.PathPrefix(UploadsPath).
		Handler(http.StripPrefix(UploadsPath, noDirectoryListing(http.FileServer(http.Dir(deps.Uploader.Root()))))).
		Methods(http.MethodGet, http.MethodHead)

	debug.Info("Route configuration completed successfully")
}

// SetupPaymentTypeRoutes mounts the payment type resource on an /api router
func SetupPaymentTypeRoutes(r *mux.Router, h *paymenttype.Handler) {
	debug.Debug("Setting up payment type routes")
	paymentTypes := r.PathPrefix("/payment-types").Subrouter()
	paymentTypes.HandleFunc("", h.HandleListPaymentTypes).Methods(http.MethodGet, http.MethodOptions)
	paymentTypes.HandleFunc("", h.HandleCreatePaymentType).Methods(http.MethodPost)
	paymentTypes.HandleFunc("/", h.HandleListPaymentTypes).Methods(http.MethodGet, http.MethodOptions)
	paymentTypes.HandleFunc("/", h.HandleCreatePaymentType).Methods(http.MethodPost)
}

// noDirectoryListing answers 404 for directory paths so stored file names cannot be enumerated
func noDirectoryListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
