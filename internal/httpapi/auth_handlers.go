package httpapi

import (
	"errors"
	"net/http"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
)

type registerRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	FullName string    `json:"full_name"`
	Role     auth.Role `json:"role"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	session, err := a.auth.Register(r.Context(), req.Email, req.Password, req.FullName, req.Role)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "Email, password et nom complet requis")
		return
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusConflict, "Un utilisateur avec cet email existe déjà")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(session))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}
	session, err := a.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Email ou mot de passe incorrect")
		return
	case errors.Is(err, auth.ErrAccountDisabled):
		writeError(w, r, http.StatusForbidden, "Compte désactivé")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, r, http.StatusBadRequest, "Refresh token requis")
		return
	}
	access, exp, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrTokenExpired):
		writeError(w, r, http.StatusUnauthorized, "Refresh token expiré")
		return
	case errors.Is(err, auth.ErrTokenNotFound), errors.Is(err, auth.ErrTokenRevoked):
		writeError(w, r, http.StatusUnauthorized, "Refresh token invalide")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": access,
		"expires_at":   exp,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	a.auth.Logout(r.Context(), req.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Déconnecté avec succès"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Token manquant")
		return
	}
	user, err := a.auth.Whoami(r.Context(), token)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, "Token invalide")
		return
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Utilisateur non trouvé")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func sessionResponse(s *auth.Session) map[string]any {
	return map[string]any{
		"access_token":  s.AccessToken,
		"refresh_token": s.RefreshToken,
		"expires_at":    s.AccessExpiresAt,
		"user":          s.User,
	}
}

func (a *API) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("handler failed")
	writeError(w, r, http.StatusInternalServerError, "Erreur serveur")
}
