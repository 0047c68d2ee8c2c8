package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/httputil"
	"authgate/pkg/requestcontext"
)

// HandleProviderLogin handles GET /auth/{provider}/login with a redirect
// to the upstream authorization page.
func (h *Handler) HandleProviderLogin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")

	redirectURL, err := h.bridge.BeginAuthorization(name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// HandleProviderCallback handles GET /auth/{provider}/callback: code
// exchange, profile resolution, then the same token pair as a password
// login.
func (h *Handler) HandleProviderCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "provider")

	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeProviderError, "missing authorization code"))
		return
	}

	ident, err := h.bridge.CompleteAuthorization(ctx, name, code)
	if err != nil {
		h.logger.WarnContext(ctx, "provider callback failed",
			"provider", name,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	pair, err := h.auth.IssuePairFor(ctx, ident)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pair)
}
