package attendance

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
)

// Handler manages attendance endpoints.
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

// MountRoutes registers attendance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermAttendanceView))
		r.Get("/", h.listEntries)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermAttendanceManage))
		r.Post("/", h.markEntry)
	})
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	q := r.URL.Query()
	classID := q.Get("class_id")
	if classID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "class_id is required")
		return
	}
	date, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be formatted as YYYY-MM-DD")
		return
	}
	list, err := h.service.ListByClassDate(r.Context(), *sub, classID, date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]map[string]any, len(list))
	for i, e := range list {
		out[i] = map[string]any{
			"id":         e.ID,
			"student_id": e.StudentID,
			"date":       e.Date.Format("2006-01-02"),
			"status":     e.Status,
			"marked_by":  e.MarkedBy,
			"marked_at":  e.MarkedAt,
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": out})
}

type markRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present sick excused absent"`
}

func (h *Handler) markEntry(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	var req markRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be formatted as YYYY-MM-DD")
		return
	}
	err = h.service.Mark(r.Context(), *sub, Entry{
		StudentID: req.StudentID,
		ClassID:   req.ClassID,
		Date:      date,
		Status:    req.Status,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
