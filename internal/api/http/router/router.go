package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/jobtracker-server/internal/api/http/handler"
	"github.com/dtroode/jobtracker-server/internal/api/http/middleware"
	"github.com/dtroode/jobtracker-server/internal/api/http/response"
	"github.com/dtroode/jobtracker-server/internal/logger"
	"github.com/dtroode/jobtracker-server/internal/model"
)

// Router represents the HTTP router for job tracker operations.
// It wires handlers and middleware into a chi mux.
type Router struct {
	identity          model.IdentityProvider
	jobService        handler.JobService
	attachmentService handler.AttachmentService
	pinger            handler.Pinger
	contextManager    model.ContextManager
	corsOrigins       []string
	logger            *logger.Logger
}

// New creates new Router instance.
//
// Parameters:
//   - identity: The identity provider behind /auth and the bearer check
//   - jobService: The job entry service
//   - attachmentService: The attachment service, nil when object storage is disabled
//   - pinger: Database liveness probe for the health endpoint, may be nil
//   - contextManager: Carries the authenticated user ID between middleware and handlers
//   - corsOrigins: Allowed CORS origins
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	identity model.IdentityProvider,
	jobService handler.JobService,
	attachmentService handler.AttachmentService,
	pinger handler.Pinger,
	contextManager model.ContextManager,
	corsOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		identity:          identity,
		jobService:        jobService,
		attachmentService: attachmentService,
		pinger:            pinger,
		contextManager:    contextManager,
		corsOrigins:       corsOrigins,
		logger:            logger,
	}
}

// Register builds the HTTP handler with all routes and middleware.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		logging.Handler,
		chimiddleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: r.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
	)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, http.StatusNotFound, "Route not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	mux.Get("/", handler.NewHealth(r.pinger, r.logger).Check)

	r.registerAuthRoutes(mux)
	r.registerJobRoutes(mux)

	return mux
}

func (r *Router) registerAuthRoutes(mux chi.Router) {
	authHandler := handler.NewAuth(r.identity, r.logger)

	mux.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", authHandler.SignUp)
		ar.Post("/login", authHandler.SignIn)
		ar.Post("/logout", authHandler.SignOut)
		ar.Post("/refresh", authHandler.Refresh)
	})
}

func (r *Router) registerJobRoutes(mux chi.Router) {
	authenticate := middleware.NewAuthenticate(r.identity, r.contextManager, r.logger)
	jobHandler := handler.NewJob(r.jobService, r.contextManager, r.logger)

	// Authentication runs before route matching, so every /jobs path
	// without a valid token is rejected with 401.
	mux.Route("/jobs", func(jr chi.Router) {
		jr.Use(authenticate.Handler)

		jr.Get("/", jobHandler.List)
		jr.Post("/", jobHandler.Create)
		jr.Get("/{id}", jobHandler.Get)
		jr.Put("/{id}", jobHandler.Update)
		jr.Delete("/{id}", jobHandler.Delete)

		if r.attachmentService != nil {
			attachmentHandler := handler.NewAttachment(r.attachmentService, r.contextManager, r.logger)
			jr.Put("/{id}/attachment", attachmentHandler.Upload)
			jr.Get("/{id}/attachment", attachmentHandler.Download)
			jr.Delete("/{id}/attachment", attachmentHandler.Delete)
		}
	})
}
