package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

func (a *API) handleCandidatesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.submitCandidate(w, r)
	case http.MethodGet:
		a.listCandidates(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// submitCandidate accepts public applications: no authentication required,
// but an authenticated submission is linked to the account.
func (a *API) submitCandidate(w http.ResponseWriter, r *http.Request) {
	var sub recruit.CandidateSubmission
	if err := decodeJSON(w, r, &sub); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	var actorID string
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		actorID = claims.Subject
	}
	c, err := a.recruit.SubmitCandidate(r.Context(), sub, actorID)
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "Champs obligatoires manquants ou invalides")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"candidate_id": c.ID,
		"message":      "Candidature soumise avec succès",
	})
}

func (a *API) listCandidates(w http.ResponseWriter, r *http.Request) {
	if a.requireRole(w, r, auth.RoleAdmin, auth.RoleRecruteur, auth.RoleLecteur) == nil {
		return
	}
	filter, err := candidateFilterFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	candidates, total, err := a.recruit.ListCandidates(r.Context(), filter)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"total":      total,
	})
}

func (a *API) handleCandidateResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/candidates/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "Route non trouvée")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getCandidate(w, r, id)
	case http.MethodPut:
		a.updateCandidate(w, r, id)
	case http.MethodDelete:
		a.deleteCandidate(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) getCandidate(w http.ResponseWriter, r *http.Request, id string) {
	if a.requireRole(w, r, auth.RoleAdmin, auth.RoleRecruteur, auth.RoleLecteur) == nil {
		return
	}
	c, err := a.recruit.GetCandidate(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Candidat non trouvé")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidate": c})
}

func (a *API) updateCandidate(w http.ResponseWriter, r *http.Request, id string) {
	claims := a.requireRole(w, r, auth.RoleAdmin, auth.RoleRecruteur)
	if claims == nil {
		return
	}
	var upd recruit.CandidateUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	c, err := a.recruit.UpdateCandidate(r.Context(), id, upd, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "Statut invalide")
		return
	case errors.Is(err, recruit.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Candidat non trouvé")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"candidate": c,
	})
}

func (a *API) deleteCandidate(w http.ResponseWriter, r *http.Request, id string) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, http.StatusUnauthorized, "Authentification requise")
		return
	}
	if !auth.Authorize(claims, auth.RoleAdmin) {
		writeError(w, r, http.StatusForbidden, "Accès non autorisé. Seuls les admins peuvent supprimer")
		return
	}
	err := a.recruit.DeleteCandidate(r.Context(), id, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Candidat non trouvé")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Candidat supprimé",
	})
}

func candidateFilterFromQuery(r *http.Request) (recruit.CandidateFilter, error) {
	q := r.URL.Query()
	filter := recruit.CandidateFilter{
		Diplome: q.Get("diplome"),
		Wilaya:  q.Get("wilaya"),
		Status:  q.Get("status"),
	}
	if raw := strings.TrimSpace(q.Get("experience_min")); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 {
			return filter, errors.New("experience_min must be a non-negative integer")
		}
		filter.ExperienceMin = &min
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		return filter, err
	}
	return filter, nil
}
