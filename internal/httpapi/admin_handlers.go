package httpapi

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
)

func (a *API) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.requireAdmin(w, r) == nil {
		return
	}
	stats, err := a.recruit.Stats(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	users, err := a.auth.ListUsers(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"total_users":        len(users),
			"total_candidates":   stats.TotalCandidates,
			"pending_candidates": stats.PendingCandidates,
			"total_jobs":         stats.TotalJobs,
			"active_jobs":        stats.ActiveJobs,
		},
	})
}

func (a *API) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.requireAdmin(w, r) == nil {
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	logs, err := a.auth.AuditLog(r.Context(), auth.AuditFilter{
		Action: r.URL.Query().Get("action"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (a *API) handleExportCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	claims := a.requireAdmin(w, r)
	if claims == nil {
		return
	}
	candidates, err := a.recruit.ExportCandidates(r.Context(), claims.Subject)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"id", "prenom", "nom", "email", "telephone", "wilaya", "diplome",
		"specialite", "experience_annees", "competences", "langues",
		"disponibilite", "pretention_salariale", "status", "created_at",
	})
	for _, c := range candidates {
		_ = cw.Write([]string{
			c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Wilaya,
			c.Diplome, c.Specialite, strconv.Itoa(c.ExperienceYears),
			strings.Join(c.Competences, "; "), strings.Join(c.Langues, "; "),
			c.Disponibilite, c.PretentionSalariale, c.Status,
			c.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func (a *API) handleExportJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	claims := a.requireAdmin(w, r)
	if claims == nil {
		return
	}
	jobs, err := a.recruit.ExportJobs(r.Context(), claims.Subject)
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"id", "titre", "type_contrat", "localisation", "wilaya",
		"salaire_min", "salaire_max", "experience_requise", "diplome_requis",
		"competences_requises", "date_limite", "is_active", "created_at",
	})
	for _, j := range jobs {
		_ = cw.Write([]string{
			j.ID, j.Title, j.ContractType, j.Location, j.Wilaya,
			intOrEmpty(j.SalaryMin), intOrEmpty(j.SalaryMax),
			j.ExperienceRequise, j.DiplomeRequis,
			strings.Join(j.CompetencesRequises, "; "),
			timeOrEmpty(j.DateLimite), strconv.FormatBool(j.Active),
			j.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func (a *API) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.requireAdmin(w, r) == nil {
		return
	}
	users, err := a.auth.ListUsers(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type adminUserUpdateRequest struct {
	Role   *auth.Role `json:"role"`
	Active *bool      `json:"is_active"`
}

func (a *API) handleAdminUserResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/users/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "Route non trouvée")
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	claims := a.requireAdmin(w, r)
	if claims == nil {
		return
	}
	var req adminUserUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Requête invalide")
		return
	}
	if req.Role == nil && req.Active == nil {
		writeError(w, r, http.StatusBadRequest, "Aucun champ à mettre à jour")
		return
	}
	user, err := a.auth.UpdateUser(r.Context(), id, auth.UserUpdate{
		Role:   req.Role,
		Active: req.Active,
	}, claims.Subject)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "Rôle invalide")
		return
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Utilisateur non trouvé")
		return
	default:
		a.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
