// Package recruit holds the recruitment domain: candidate applications and
// job postings.
package recruit

import "time"

// Candidate application statuses.
const (
	StatusPending   = "pending"
	StatusReviewed  = "reviewed"
	StatusInterview = "interview"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
)

// ValidStatus reports whether s is a known application status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusInterview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Candidate is a submitted application. Submissions are public; the optional
// UserID links the application to an authenticated account when present.
type Candidate struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id,omitempty"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Wilaya              string    `json:"wilaya"`
	Diplome             string    `json:"diplome"`
	Specialite          string    `json:"specialite"`
	ExperienceYears     int       `json:"experience_years"`
	Competences         []string  `json:"competences,omitempty"`
	Langues             []string  `json:"langues,omitempty"`
	CVURL               string    `json:"cv_url,omitempty"`
	LettreMotivation    string    `json:"lettre_motivation,omitempty"`
	Disponibilite       string    `json:"disponibilite,omitempty"`
	PretentionSalariale string    `json:"pretention_salariale,omitempty"`
	Status              string    `json:"status"`
	Notes               string    `json:"notes,omitempty"`
	PDFResumeURL        string    `json:"pdf_resume_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CandidateSubmission is the public application payload.
type CandidateSubmission struct {
	FirstName           string   `json:"prenom" validate:"required"`
	LastName            string   `json:"nom" validate:"required"`
	Email               string   `json:"email" validate:"required,email"`
	Phone               string   `json:"telephone" validate:"required"`
	Wilaya              string   `json:"wilaya" validate:"required"`
	Diplome             string   `json:"diplome" validate:"required"`
	Specialite          string   `json:"specialite" validate:"required"`
	ExperienceYears     int      `json:"experience_annees" validate:"gte=0"`
	Competences         []string `json:"competences"`
	Langues             []string `json:"langues"`
	CVURL               string   `json:"cv_url" validate:"omitempty,url"`
	LettreMotivation    string   `json:"lettre_motivation"`
	Disponibilite       string   `json:"disponibilite"`
	PretentionSalariale string   `json:"pretention_salariale"`
}

// CandidateUpdate carries the reviewable fields. Nil fields are unchanged.
type CandidateUpdate struct {
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
	PDFResumeURL *string `json:"pdf_resume_url"`
}

// CandidateFilter narrows candidate listings. A zero Limit means no paging.
type CandidateFilter struct {
	Diplome       string
	Wilaya        string
	Status        string
	ExperienceMin *int
	Limit         int
	Offset        int
}

// Job is a published job offer.
type Job struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	ContractType        string     `json:"contract_type"`
	Location            string     `json:"location"`
	Wilaya              string     `json:"wilaya"`
	SalaryMin           *int       `json:"salaire_min,omitempty"`
	SalaryMax           *int       `json:"salaire_max,omitempty"`
	ExperienceRequise   string     `json:"experience_requise"`
	DiplomeRequis       string     `json:"diplome_requis"`
	CompetencesRequises []string   `json:"competences_requises,omitempty"`
	DateLimite          *time.Time `json:"date_limite,omitempty"`
	Active              bool       `json:"is_active"`
	CreatedBy           string     `json:"created_by,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// JobInput is the payload for publishing an offer.
type JobInput struct {
	Title               string     `json:"titre" validate:"required"`
	Description         string     `json:"description" validate:"required"`
	ContractType        string     `json:"type_contrat" validate:"required"`
	Location            string     `json:"localisation" validate:"required"`
	Wilaya              string     `json:"wilaya" validate:"required"`
	SalaryMin           *int       `json:"salaire_min"`
	SalaryMax           *int       `json:"salaire_max"`
	ExperienceRequise   string     `json:"experience_requise" validate:"required"`
	DiplomeRequis       string     `json:"diplome_requis" validate:"required"`
	CompetencesRequises []string   `json:"competences_requises"`
	DateLimite          *time.Time `json:"date_limite"`
}

// JobUpdate carries the mutable offer fields. Nil fields are unchanged.
type JobUpdate struct {
	Title               *string    `json:"titre"`
	Description         *string    `json:"description"`
	ContractType        *string    `json:"type_contrat"`
	Location            *string    `json:"localisation"`
	Wilaya              *string    `json:"wilaya"`
	SalaryMin           *int       `json:"salaire_min"`
	SalaryMax           *int       `json:"salaire_max"`
	ExperienceRequise   *string    `json:"experience_requise"`
	DiplomeRequis       *string    `json:"diplome_requis"`
	CompetencesRequises []string   `json:"competences_requises"`
	DateLimite          *time.Time `json:"date_limite"`
	Active              *bool      `json:"is_active"`
}

// JobFilter narrows job listings. Active nil means both states.
type JobFilter struct {
	Wilaya       string
	ContractType string
	Active       *bool
	Limit        int
	Offset       int
}

// Stats summarizes the recruitment tables for the admin dashboard.
type Stats struct {
	TotalCandidates   int `json:"total_candidates"`
	PendingCandidates int `json:"pending_candidates"`
	TotalJobs         int `json:"total_jobs"`
	ActiveJobs        int `json:"active_jobs"`
}
