package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/tinymagiq/podworks/internal/auth"
	podhttp "github.com/tinymagiq/podworks/internal/http"
	"github.com/tinymagiq/podworks/internal/logger"
	"github.com/tinymagiq/podworks/internal/models"
	"github.com/tinymagiq/podworks/internal/store"
)

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	stores        *store.Stores
	issuer        *auth.TokenIssuer
	authenticator *auth.Authenticator
}

// NewServer creates a new server with the given stores and token issuer.
func NewServer(stores *store.Stores, issuer *auth.TokenIssuer) *Server {
	return &Server{
		stores:        stores,
		issuer:        issuer,
		authenticator: auth.NewAuthenticator(stores.Users, issuer),
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler(log zerolog.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.Requests(log))
	r.Use(podhttp.ClientIPMiddleware())
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	// Health check endpoint for load balancer
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.issuer))

			r.Get("/organizations", s.handleListOrganizations)
			r.Get("/batches", s.handleListBatches)
			r.Get("/pods", s.handleListPods)
			r.Get("/mentors", s.handleListMentors)
			r.Get("/concepts", s.handleListConcepts)
			r.Get("/orgusers/{email}/program", s.handleGetUserProgram)
			r.Get("/pods/{pod_id}/users", s.handleListPodUsers)
			r.Get("/pods/{pod_id}/mentors", s.handleListPodMentors)
			r.Get("/pods/{pod_id}/concepts", s.handleListPodConcepts)

			// Organization and admin account management is superadmin only.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleSuperadmin))

				r.Post("/organizations", s.handleCreateOrganization)
				r.Patch("/organizations/{org_id}", s.handleUpdateOrganization)
				r.Post("/superadmins", s.handleCreateSuperadmin)
				r.Post("/orgadmins", s.handleCreateOrgadmin)
			})

			// Program administration is open to both admin roles.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleSuperadmin, models.RoleOrgadmin))

				r.Post("/orgusers", s.handleCreateOrguser)

				r.Post("/batches", s.handleCreateBatch)
				r.Put("/batches/{batch_id}", s.handleUpdateBatch)
				r.Post("/pods", s.handleCreatePod)
				r.Put("/pods/{pod_id}", s.handleUpdatePod)

				r.Post("/mentors", s.handleCreateMentor)
				r.Put("/mentors/{mentor_id}", s.handleUpdateMentor)
				r.Delete("/mentors/{mentor_id}", s.handleDeleteMentor)
				r.Post("/concepts", s.handleCreateConcept)
				r.Put("/concepts/{concept_id}", s.handleUpdateConcept)

				r.Post("/pod-users", s.handleAssignUserToPod)
				r.Delete("/pod-users", s.handleRemoveUserFromPod)
				r.Post("/pod-mentors", s.handleAssignMentorToPod)
				r.Delete("/pod-mentors", s.handleRemoveMentorFromPod)
				r.Post("/batch-concepts", s.handleAssignConceptToBatch)
				r.Delete("/batch-concepts", s.handleRemoveConceptFromBatch)
			})
		})
	})

	return r
}
