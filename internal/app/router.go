package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sekolah-adp/sekolah-adp/internal/attendance"
	"github.com/sekolah-adp/sekolah-adp/internal/auth"
	"github.com/sekolah-adp/sekolah-adp/internal/counseling"
	"github.com/sekolah-adp/sekolah-adp/internal/grades"
	"github.com/sekolah-adp/sekolah-adp/internal/observability"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
	"github.com/sekolah-adp/sekolah-adp/internal/students"
	"github.com/sekolah-adp/sekolah-adp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthMiddleware auth.Middleware

	AuthHandler       *auth.Handler
	StudentsHandler   *students.Handler
	GradesHandler     *grades.Handler
	AttendanceHandler *attendance.Handler
	CounselingHandler *counseling.Handler
	PolicyHandler     *policy.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.AuthMiddleware.WithSubject)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireSubject)

		r.Route("/students", params.StudentsHandler.MountRoutes)
		r.Route("/grades", params.GradesHandler.MountRoutes)
		r.Route("/attendance", params.AttendanceHandler.MountRoutes)
		r.Route("/counseling", params.CounselingHandler.MountRoutes)
		r.Route("/authz", params.PolicyHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
