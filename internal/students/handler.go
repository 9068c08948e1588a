package students

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
)

// Handler manages student endpoints.
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

// MountRoutes registers student routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermStudentsView))
		r.Get("/", h.listStudents)
		r.Get("/{id}", h.getStudent)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermParentsViewInfo))
		r.Get("/{id}/parent", h.parentInfo)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermStudentsEditInfo))
		r.Put("/{id}", h.updateInfo)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.policy.RequireAny(policy.PermParentsContact))
		r.Post("/{id}/contact-parent", h.contactParent)
	})
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	classID := r.URL.Query().Get("class_id")
	if classID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "class_id is required")
		return
	}
	list, err := h.service.ListByClass(r.Context(), *sub, classID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"students": toJSONList(list)})
}

func (h *Handler) getStudent(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	st, err := h.service.Get(r.Context(), *sub, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toJSON(st))
}

func (h *Handler) parentInfo(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	st, err := h.service.ParentInfo(r.Context(), *sub, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"student_id":   st.ID,
		"parent_name":  st.ParentName,
		"parent_phone": st.ParentPhone,
		"parent_email": st.ParentEmail,
	})
}

type updateInfoRequest struct {
	Name        string `json:"name" validate:"required"`
	ParentName  string `json:"parent_name"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
}

func (h *Handler) updateInfo(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	var req updateInfoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err := h.service.UpdateInfo(r.Context(), *sub, chi.URLParam(r, "id"), InfoUpdate{
		Name:        req.Name,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
		ParentEmail: req.ParentEmail,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type contactParentRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

func (h *Handler) contactParent(w http.ResponseWriter, r *http.Request) {
	sub := policy.SubjectFromContext(r.Context())
	var req contactParentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.ContactParent(r.Context(), *sub, chi.URLParam(r, "id"), req.Subject, req.Body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func toJSON(st Student) map[string]any {
	return map[string]any{
		"id":       st.ID,
		"name":     st.Name,
		"class_id": st.ClassID,
	}
}

func toJSONList(list []Student) []map[string]any {
	out := make([]map[string]any, len(list))
	for i, st := range list {
		out[i] = toJSON(st)
	}
	return out
}
