package counseling

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
)

// Handler manages counseling endpoints.
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

// MountRoutes registers counseling routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermCounselingConduct))
		r.Post("/", h.conduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermCounselingViewRecords))
		r.Get("/", h.history)
		r.Get("/{id}", h.get)
	})
}

type conductRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Topic     string `json:"topic" validate:"required"`
	Notes     string `json:"notes"`
	HeldAt    string `json:"held_at"`
}

func (h *Handler) conduct(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	var req conductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var heldAt time.Time
	if req.HeldAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.HeldAt)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "held_at must be RFC3339")
			return
		}
		heldAt = parsed
	}
	rec, err := h.service.Conduct(r.Context(), *sub, SessionRecord{
		StudentID: req.StudentID,
		Topic:     req.Topic,
		Notes:     req.Notes,
		HeldAt:    heldAt,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toJSON(rec))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "student_id is required")
		return
	}
	list, err := h.service.History(r.Context(), *sub, studentID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]map[string]any, len(list))
	for i, rec := range list {
		out[i] = toJSON(rec)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"records": out})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	rec, err := h.service.Get(r.Context(), *sub, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toJSON(rec))
}

func toJSON(rec SessionRecord) map[string]any {
	return map[string]any{
		"id":           rec.ID,
		"student_id":   rec.StudentID,
		"counselor_id": rec.CounselorID,
		"topic":        rec.Topic,
		"notes":        rec.Notes,
		"held_at":      rec.HeldAt,
		"created_at":   rec.CreatedAt,
	}
}
