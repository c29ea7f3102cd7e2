package recruit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ae2i-algerie/recrutement-api/internal/auth"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service applies the recruitment rules on top of the store. Write
// operations append to the activity log through the shared recorder.
type Service struct {
	store Store
	audit *auth.AuditRecorder
}

// NewService constructs the service. The recorder may be nil, in which case
// no activity is logged.
func NewService(store Store, audit *auth.AuditRecorder) (*Service, error) {
	if store == nil {
		return nil, errors.New("recruit: store is required")
	}
	return &Service{store: store, audit: audit}, nil
}

// SubmitCandidate records a public application. actorID is empty for
// anonymous submissions.
func (s *Service) SubmitCandidate(ctx context.Context, sub CandidateSubmission, actorID string) (*Candidate, error) {
	if err := validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validationDetail(err))
	}
	disponibilite := strings.TrimSpace(sub.Disponibilite)
	if disponibilite == "" {
		disponibilite = "immédiate"
	}
	c := &Candidate{
		UserID:              actorID,
		FirstName:           strings.TrimSpace(sub.FirstName),
		LastName:            strings.TrimSpace(sub.LastName),
		Email:               strings.TrimSpace(sub.Email),
		Phone:               strings.TrimSpace(sub.Phone),
		Wilaya:              strings.TrimSpace(sub.Wilaya),
		Diplome:             strings.TrimSpace(sub.Diplome),
		Specialite:          strings.TrimSpace(sub.Specialite),
		ExperienceYears:     sub.ExperienceYears,
		Competences:         sub.Competences,
		Langues:             sub.Langues,
		CVURL:               sub.CVURL,
		LettreMotivation:    sub.LettreMotivation,
		Disponibilite:       disponibilite,
		PretentionSalariale: sub.PretentionSalariale,
		Status:              StatusPending,
	}
	if err := s.store.Candidates(ctx).Create(ctx, c); err != nil {
		return nil, err
	}
	if actorID != "" {
		s.audit.Record(ctx, actorID, "create_candidacy", "candidate", c.ID, nil)
	}
	return c, nil
}

// GetCandidate fetches one application.
func (s *Service) GetCandidate(ctx context.Context, id string) (*Candidate, error) {
	return s.store.Candidates(ctx).Find(ctx, id)
}

// ListCandidates returns the filtered page and the total match count.
func (s *Service) ListCandidates(ctx context.Context, filter CandidateFilter) ([]*Candidate, int, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative paging", ErrInvalidInput)
	}
	return s.store.Candidates(ctx).List(ctx, filter)
}

// UpdateCandidate applies a review update.
func (s *Service) UpdateCandidate(ctx context.Context, id string, upd CandidateUpdate, actorID string) (*Candidate, error) {
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *upd.Status)
	}
	c, err := s.store.Candidates(ctx).Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "update_candidate", "candidate", id, map[string]any{
		"updated_fields": updatedCandidateFields(upd),
	})
	return c, nil
}

// DeleteCandidate removes an application permanently.
func (s *Service) DeleteCandidate(ctx context.Context, id string, actorID string) error {
	if err := s.store.Candidates(ctx).Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, "delete_candidate", "candidate", id, nil)
	return nil
}

// CreateJob publishes a new offer, active by default.
func (s *Service) CreateJob(ctx context.Context, input JobInput, actorID string) (*Job, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, validationDetail(err))
	}
	j := &Job{
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		ContractType:        strings.TrimSpace(input.ContractType),
		Location:            strings.TrimSpace(input.Location),
		Wilaya:              strings.TrimSpace(input.Wilaya),
		SalaryMin:           input.SalaryMin,
		SalaryMax:           input.SalaryMax,
		ExperienceRequise:   input.ExperienceRequise,
		DiplomeRequis:       input.DiplomeRequis,
		CompetencesRequises: input.CompetencesRequises,
		DateLimite:          input.DateLimite,
		Active:              true,
		CreatedBy:           actorID,
	}
	if err := s.store.Jobs(ctx).Create(ctx, j); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "create_job", "job", j.ID, nil)
	return j, nil
}

// GetJob fetches one offer. Inactive offers are hidden from non-staff
// callers as if they did not exist.
func (s *Service) GetJob(ctx context.Context, id string, staff bool) (*Job, error) {
	j, err := s.store.Jobs(ctx).Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !j.Active && !staff {
		return nil, ErrNotFound
	}
	return j, nil
}

// ListJobs returns the filtered page and the total match count. Non-staff
// callers only ever see active offers, whatever the filter says.
func (s *Service) ListJobs(ctx context.Context, filter JobFilter, staff bool) ([]*Job, int, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative paging", ErrInvalidInput)
	}
	if !staff {
		active := true
		filter.Active = &active
	}
	return s.store.Jobs(ctx).List(ctx, filter)
}

// UpdateJob applies changes to an offer.
func (s *Service) UpdateJob(ctx context.Context, id string, upd JobUpdate, actorID string) (*Job, error) {
	j, err := s.store.Jobs(ctx).Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "update_job", "job", id, map[string]any{
		"updated_fields": updatedJobFields(upd),
	})
	return j, nil
}

// DeleteJob removes an offer permanently.
func (s *Service) DeleteJob(ctx context.Context, id string, actorID string) error {
	if err := s.store.Jobs(ctx).Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorID, "delete_job", "job", id, nil)
	return nil
}

// Stats counts candidates and offers for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	_, totalCandidates, err := s.store.Candidates(ctx).List(ctx, CandidateFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	_, pending, err := s.store.Candidates(ctx).List(ctx, CandidateFilter{Status: StatusPending, Limit: 1})
	if err != nil {
		return nil, err
	}
	_, totalJobs, err := s.store.Jobs(ctx).List(ctx, JobFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	active := true
	_, activeJobs, err := s.store.Jobs(ctx).List(ctx, JobFilter{Active: &active, Limit: 1})
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalCandidates:   totalCandidates,
		PendingCandidates: pending,
		TotalJobs:         totalJobs,
		ActiveJobs:        activeJobs,
	}, nil
}

// ExportCandidates returns every application, newest first.
func (s *Service) ExportCandidates(ctx context.Context, actorID string) ([]*Candidate, error) {
	candidates, _, err := s.store.Candidates(ctx).List(ctx, CandidateFilter{})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "export_candidates", "candidate", "", map[string]any{
		"count": len(candidates),
	})
	return candidates, nil
}

// ExportJobs returns every offer, newest first.
func (s *Service) ExportJobs(ctx context.Context, actorID string) ([]*Job, error) {
	jobs, _, err := s.store.Jobs(ctx).List(ctx, JobFilter{})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorID, "export_jobs", "job", "", map[string]any{
		"count": len(jobs),
	})
	return jobs, nil
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return "invalid fields: " + strings.Join(fields, ", ")
	}
	return err.Error()
}

func updatedCandidateFields(upd CandidateUpdate) []string {
	var fields []string
	if upd.Status != nil {
		fields = append(fields, "status")
	}
	if upd.Notes != nil {
		fields = append(fields, "notes")
	}
	if upd.PDFResumeURL != nil {
		fields = append(fields, "pdf_resume_url")
	}
	return fields
}

func updatedJobFields(upd JobUpdate) []string {
	var fields []string
	if upd.Title != nil {
		fields = append(fields, "title")
	}
	if upd.Description != nil {
		fields = append(fields, "description")
	}
	if upd.ContractType != nil {
		fields = append(fields, "contract_type")
	}
	if upd.Location != nil {
		fields = append(fields, "location")
	}
	if upd.Wilaya != nil {
		fields = append(fields, "wilaya")
	}
	if upd.SalaryMin != nil {
		fields = append(fields, "salaire_min")
	}
	if upd.SalaryMax != nil {
		fields = append(fields, "salaire_max")
	}
	if upd.ExperienceRequise != nil {
		fields = append(fields, "experience_requise")
	}
	if upd.DiplomeRequis != nil {
		fields = append(fields, "diplome_requis")
	}
	if upd.CompetencesRequises != nil {
		fields = append(fields, "competences_requises")
	}
	if upd.DateLimite != nil {
		fields = append(fields, "date_limite")
	}
	if upd.Active != nil {
		fields = append(fields, "is_active")
	}
	return fields
}
