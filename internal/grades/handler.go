package grades

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
)

// Handler manages grade endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	policy    policy.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw policy.Middleware) *Handler {
	return &Handler{logger: logger, service: service, policy: mw, validator: validator.New()}
}

// MountRoutes registers grade routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermGradesView))
		r.Get("/", h.listGrades)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermGradesManage))
		r.Post("/", h.recordGrade)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermGradesExport))
		r.Post("/exports", h.requestExport)
		r.Get("/exports/{id}", h.exportStatus)
	})
}

func (h *Handler) listGrades(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	q := r.URL.Query()
	classID, subjectID, termID := q.Get("class_id"), q.Get("subject_id"), q.Get("term_id")
	if classID == "" || subjectID == "" || termID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "class_id, subject_id and term_id are required")
		return
	}
	list, err := h.service.ListByClass(r.Context(), *sub, classID, subjectID, termID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]map[string]any, len(list))
	for i, g := range list {
		out[i] = map[string]any{
			"id":          g.ID,
			"student_id":  g.StudentID,
			"subject_id":  g.SubjectID,
			"term_id":     g.TermID,
			"score":       g.Score,
			"recorded_by": g.RecordedBy,
			"recorded_at": g.RecordedAt,
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"grades": out})
}

type recordGradeRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	ClassID   string  `json:"class_id" validate:"required"`
	SubjectID string  `json:"subject_id" validate:"required"`
	TermID    string  `json:"term_id" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0,lte=100"`
}

func (h *Handler) recordGrade(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	var req recordGradeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err := h.service.Record(r.Context(), *sub, Grade{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TermID:    req.TermID,
		Score:     req.Score,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type exportRequest struct {
	ClassID   string `json:"class_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	TermID    string `json:"term_id" validate:"required"`
}

func (h *Handler) requestExport(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	var req exportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.RequestExport(r.Context(), *sub, ExportScope{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TermID:    req.TermID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"export_id": id, "status": ExportStatusPending})
}

func (h *Handler) exportStatus(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	exp, err := h.service.ExportStatus(r.Context(), *sub, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"export_id":    exp.ID,
		"status":       exp.Status,
		"file_path":    exp.FilePath,
		"created_at":   exp.CreatedAt,
		"completed_at": exp.CompletedAt,
	})
}
