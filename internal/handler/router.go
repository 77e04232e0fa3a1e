package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/settlement-engine/internal/ctxkeys"
	"github.com/segyhp/settlement-engine/internal/middleware"
	"github.com/segyhp/settlement-engine/pkg/response"
)

// Routes bundles the handlers mounted by NewRouter
type Routes struct {
	Documents    *DocumentHandler
	Recruitments *RecruitmentHandler
	Health       *HealthHandler
	JWTSecret    string
}

// NewRouter wires every route. Health endpoints are public; the API under
// /api/v1 requires a bearer token and a per-route permission.
func NewRouter(routes Routes) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)
	router.Use(response.CORSMiddleware)

	if routes.Health != nil {
		router.HandleFunc("/health", routes.Health.Health).Methods(http.MethodGet)
		router.HandleFunc("/health/ready", routes.Health.Ready).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(routes.JWTSecret))

	guard := func(perm string, h http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(perm)(h)
	}

	if d := routes.Documents; d != nil {
		api.Handle("/end-of-work-documents", guard(ctxkeys.PermissionCreate, d.Create)).Methods(http.MethodPost)
		api.Handle("/end-of-work-documents", guard(ctxkeys.PermissionRead, d.List)).Methods(http.MethodGet)
		api.Handle("/end-of-work-documents/{id}", guard(ctxkeys.PermissionRead, d.Get)).Methods(http.MethodGet)
		api.Handle("/end-of-work-documents/{id}", guard(ctxkeys.PermissionUpdate, d.Update)).Methods(http.MethodPut)
		api.Handle("/end-of-work-documents/{id}/calculate-financial-rights", guard(ctxkeys.PermissionUpdate, d.CalculateFinancialRights)).Methods(http.MethodPost)
		api.Handle("/end-of-work-documents/{id}/payment", guard(ctxkeys.PermissionUpdate, d.RecordPayment)).Methods(http.MethodPost)
		api.Handle("/end-of-work-documents/{id}/payments", guard(ctxkeys.PermissionRead, d.Payments)).Methods(http.MethodGet)
		api.Handle("/end-of-work-documents/{id}/pdf", guard(ctxkeys.PermissionRead, d.PDF)).Methods(http.MethodGet)
		api.Handle("/end-of-work-documents/{id}", guard(ctxkeys.PermissionDelete, d.Delete)).Methods(http.MethodDelete)
	}

	if rh := routes.Recruitments; rh != nil {
		api.Handle("/recruitments/{id}", guard(ctxkeys.PermissionRead, rh.Get)).Methods(http.MethodGet)
		api.Handle("/recruitments/{id}", guard(ctxkeys.PermissionUpdate, rh.Update)).Methods(http.MethodPut)
		api.Handle("/recruitments/{id}/convert", guard(ctxkeys.PermissionUpdate, rh.Convert)).Methods(http.MethodPost)
		api.Handle("/recruitments/{id}", guard(ctxkeys.PermissionDelete, rh.Delete)).Methods(http.MethodDelete)
	}

	return router
}
