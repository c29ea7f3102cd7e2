package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/linkedin"
)

const linkedInNotConfigured = "LinkedIn OAuth non configuré. Vérifiez les variables d'environnement."

func (a *API) handleLinkedInLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.linkedin == nil {
		writeError(w, r, http.StatusInternalServerError, linkedInNotConfigured)
		return
	}
	state, err := linkedin.StateToken()
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"auth_url": a.linkedin.AuthURL(state),
		"state":    state,
	})
}

// handleLinkedInCallback lands the browser popup after the provider redirect.
// The response is a small HTML page that hands the session to the opener via
// postMessage and closes itself.
func (a *API) handleLinkedInCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.linkedin == nil {
		a.writePopup(w, http.StatusInternalServerError, map[string]any{
			"type":  "linkedin_error",
			"error": linkedInNotConfigured,
		})
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		a.writePopup(w, http.StatusBadRequest, map[string]any{
			"type":  "linkedin_error",
			"error": "Code manquant",
		})
		return
	}

	profile, err := a.linkedin.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Warn().Err(fmt.Errorf("%w: %v", auth.ErrUpstream, err)).Msg("linkedin exchange failed")
		a.writePopup(w, http.StatusBadGateway, map[string]any{
			"type":  "linkedin_error",
			"error": "Échec de l'authentification LinkedIn",
		})
		return
	}

	session, err := a.auth.ExternalSignIn(r.Context(), auth.ExternalIdentity{
		Provider:     "linkedin",
		ExternalID:   profile.Sub,
		Email:        profile.Email,
		FullName:     profile.FullName(),
		ProfilePhoto: profile.Picture,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("linkedin sign-in failed")
		a.writePopup(w, http.StatusInternalServerError, map[string]any{
			"type":  "linkedin_error",
			"error": "Erreur serveur",
		})
		return
	}

	a.writePopup(w, http.StatusOK, map[string]any{
		"type":          "linkedin_success",
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"user": map[string]any{
			"id":            session.User.ID,
			"email":         session.User.Email,
			"full_name":     session.User.FullName,
			"role":          session.User.Role,
			"profile_photo": session.User.ProfilePhoto,
		},
	})
}

// writePopup renders the callback page. The payload and target origin are
// serialized with the JSON encoder rather than interpolated, so profile
// values cannot break out of the script block.
func (a *API) writePopup(w http.ResponseWriter, code int, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Erreur serveur", http.StatusInternalServerError)
		return
	}
	origin := a.frontendOrigin
	if origin == "" {
		origin = "*"
	}
	target, err := json.Marshal(origin)
	if err != nil {
		http.Error(w, "Erreur serveur", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Connexion LinkedIn</title></head>
<body>
<script>
(function () {
  var payload = ` + string(data) + `;
  if (window.opener) {
    window.opener.postMessage(payload, ` + string(target) + `);
  }
  window.close();
})();
</script>
<p>Vous pouvez fermer cette fenêtre.</p>
</body>
</html>
`))
}
