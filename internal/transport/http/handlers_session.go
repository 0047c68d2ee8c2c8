package httptransport

import (
	"encoding/json"
	"net/http"

	"authgate/internal/auth/models"
	"authgate/internal/platform/middleware"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/httputil"
	"authgate/pkg/requestcontext"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleRegister handles POST /auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	pair, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pair)
}

// HandleLogin handles POST /auth/login. The body is form-encoded with
// username/password fields; username carries the email.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid form body"))
		return
	}

	pair, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pair)
}

// HandleRefresh handles POST /auth/refresh. The refresh token rides the
// Authorization header; the response carries only a new access token.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := middleware.BearerToken(r)
	if !ok || tokenString == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
		return
	}

	pair, err := h.auth.Refresh(r.Context(), tokenString)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pair)
}

// HandleLogout handles POST /auth/logout. Revocation failures below the
// service surface as 500; everything else, including an undecodable
// token, still logs out with 200.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := middleware.BearerToken(r)
	if !ok || tokenString == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
		return
	}

	if err := h.auth.Logout(r.Context(), tokenString); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Logged out successfully"})
}

// HandleMe handles GET /protected/me. RequireAuth has already resolved
// the identity.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, requestcontext.Identity(r.Context()))
}

// HandleAdmin handles GET /protected/admin.
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	ident := requestcontext.Identity(r.Context())
	if err := middleware.RequireRole([]string{models.RoleAdmin}, ident); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"msg":     "admin area",
		"subject": ident.Subject,
	})
}
