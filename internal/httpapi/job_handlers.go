package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
	"github.com/ae2i-algerie/recrutement-api/internal/recruit"
)

// staffRequest reports whether the caller holds a role allowed to see
// inactive offers.
func staffRequest(r *http.Request) bool {
	claims := auth.ClaimsFromContext(r.Context())
	return auth.Authorize(claims, auth.RoleAdmin, auth.RoleRecruteur, auth.RoleLecteur)
}

func (a *API) handleJobsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listJobs(w, r)
	case http.MethodPost:
		a.createJob(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// listJobs is public: anonymous callers only see active offers.
func (a *API) listJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	jobs, total, err := a.recruit.ListJobs(r.Context(), filter, staffRequest(r))
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": total,
	})
}

func (a *API) createJob(w http.ResponseWriter, r *http.Request) {
	claims := a.requireRole(w, r, auth.RoleAdmin, auth.RoleRecruteur)
	if claims == nil {
		return
	}
	var input recruit.JobInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	j, err := a.recruit.CreateJob(r.Context(), input, claims.Subject)
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
		"success": true,
		"job":     j,
	})
}

func (a *API) handleJobResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "Route non trouvée")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getJob(w, r, id)
	case http.MethodPut:
		a.updateJob(w, r, id)
	case http.MethodDelete:
		a.deleteJob(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) getJob(w http.ResponseWriter, r *http.Request, id string) {
	j, err := a.recruit.GetJob(r.Context(), id, staffRequest(r))
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Offre non trouvée")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": j})
}

func (a *API) updateJob(w http.ResponseWriter, r *http.Request, id string) {
	claims := a.requireRole(w, r, auth.RoleAdmin, auth.RoleRecruteur)
	if claims == nil {
		return
	}
	var upd recruit.JobUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	j, err := a.recruit.UpdateJob(r.Context(), id, upd, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Offre non trouvée")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"job":     j,
	})
}

func (a *API) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	claims := a.requireRole(w, r, auth.RoleAdmin)
	if claims == nil {
		return
	}
	err := a.recruit.DeleteJob(r.Context(), id, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, recruit.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Offre non trouvée")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Offre supprimée",
	})
}

func jobFilterFromQuery(r *http.Request) (recruit.JobFilter, error) {
	q := r.URL.Query()
	filter := recruit.JobFilter{
		Wilaya:       q.Get("wilaya"),
		ContractType: q.Get("type_contrat"),
	}
	if raw := strings.TrimSpace(q.Get("is_active")); raw != "" {
		switch raw {
		case "true":
			active := true
			filter.Active = &active
		case "false":
			active := false
			filter.Active = &active
		default:
			return filter, errors.New("is_active must be true or false")
		}
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
