package policy

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sekolah-adp/sekolah-adp/internal/platform/httpx"
)

// Handler exposes the read-only authorization surface used by the UI for
// screen gating.
type Handler struct {
	logger *slog.Logger
	engine *Engine
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, engine *Engine) *Handler {
	return &Handler{logger: logger, engine: engine}
}

// MountRoutes registers authorization query routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/permissions", h.listPermissions)
	r.Get("/features", h.listFeatures)
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	sub := SubjectFromContext(r.Context())
	if sub == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"role":        sub.Role,
		"permissions": h.engine.PermissionsForRole(sub.Role),
	})
}

func (h *Handler) listFeatures(w http.ResponseWriter, r *http.Request) {
	sub := SubjectFromContext(r.Context())
	if sub == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	features := make(map[string]bool, len(featurePermissions))
	for _, id := range FeatureIDs() {
		ok, err := h.engine.CanAccessFeature(r.Context(), *sub, id)
		if err != nil {
			h.logger.Error("feature gate", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		features[id] = ok
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"features": features})
}
