// Package proposal implements client quotes: line-item money math, lifecycle
// status, and persistence.
package proposal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saramagdits/landscaping-saas/internal/store"
)

// ValidationError reports invalid proposal input; handlers map it to a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid proposal: %s %s", e.Field, e.Reason)
}

// Service owns proposal lifecycle rules on top of the repository.
type Service struct {
	repo store.ProposalRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo store.ProposalRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// CreateInput carries the caller-supplied fields for a new proposal. Cached
// money fields in Sections are ignored and recomputed.
type CreateInput struct {
	Title              string                  `json:"title"`
	ClientName         string                  `json:"clientName"`
	ClientEmail        string                  `json:"clientEmail"`
	ClientPhone        string                  `json:"clientPhone"`
	ClientAddress      string                  `json:"clientAddress"`
	ProjectAddress     string                  `json:"projectAddress"`
	ProjectDescription string                  `json:"projectDescription"`
	EstimatedStartDate time.Time               `json:"estimatedStartDate"`
	EstimatedDuration  int                     `json:"estimatedDuration"`
	Sections           []store.ProposalSection `json:"sections"`
	TaxRate            float64                 `json:"taxRate"`
	Terms              string                  `json:"terms"`
	Notes              string                  `json:"notes"`
	Status             store.ProposalStatus    `json:"status"`
	ValidUntil         time.Time               `json:"validUntil"`
}

// Create validates the input, derives all money fields, and stores the
// proposal.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*store.Proposal, error) {
	if err := validateRequired(in.Title, in.ClientName, in.ClientEmail); err != nil {
		return nil, err
	}

	sections := in.Sections
	if sections == nil {
		sections = []store.ProposalSection{}
	}
	NormalizeSections(sections)
	totals := CalculateTotals(sections, in.TaxRate)

	now := s.now().UTC()
	p := &store.Proposal{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Title:              in.Title,
		ClientName:         in.ClientName,
		ClientEmail:        in.ClientEmail,
		ClientPhone:        in.ClientPhone,
		ClientAddress:      in.ClientAddress,
		ProjectAddress:     in.ProjectAddress,
		ProjectDescription: in.ProjectDescription,
		EstimatedStartDate: in.EstimatedStartDate,
		EstimatedDuration:  in.EstimatedDuration,
		Sections:           sections,
		Subtotal:           totals.Subtotal,
		TaxRate:            in.TaxRate,
		TaxAmount:          totals.TaxAmount,
		TotalAmount:        totals.TotalAmount,
		Terms:              in.Terms,
		Notes:              in.Notes,
		Status:             in.Status,
		ValidUntil:         in.ValidUntil,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if p.Status == "" {
		p.Status = store.ProposalStatusDraft
	}
	if p.ValidUntil.IsZero() {
		p.ValidUntil = now.Add(30 * 24 * time.Hour)
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("proposal_id", p.ID).Str("user_id", userID).Msg("proposal created")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*store.Proposal, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update. When the payload includes sections, all
// money fields are rederived server-side; caller-supplied totals are always
// discarded.
func (s *Service) Update(ctx context.Context, id string, upd store.ProposalUpdate) error {
	upd.Subtotal = nil
	upd.TaxAmount = nil
	upd.TotalAmount = nil

	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}

	if upd.Sections != nil {
		rate := 0.0
		if upd.TaxRate != nil {
			rate = *upd.TaxRate
		} else {
			existing, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			rate = existing.TaxRate
		}

		NormalizeSections(upd.Sections)
		totals := CalculateTotals(upd.Sections, rate)
		upd.Subtotal = &totals.Subtotal
		upd.TaxAmount = &totals.TaxAmount
		upd.TotalAmount = &totals.TotalAmount
	}

	return s.repo.Update(ctx, id, upd)
}

// UpdateStatus moves a proposal through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id string, status store.ProposalStatus) error {
	switch status {
	case store.ProposalStatusDraft, store.ProposalStatusSent,
		store.ProposalStatusAccepted, store.ProposalStatusRejected,
		store.ProposalStatusExpired:
	default:
		return &ValidationError{Field: "status", Reason: "is not a valid status"}
	}
	return s.repo.Update(ctx, id, store.ProposalUpdate{Status: &status})
}

// Delete removes a proposal by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("proposal_id", id).Msg("proposal deleted")
	return nil
}

func (s *Service) List(ctx context.Context, userID string, filter store.ProposalFilter) ([]store.Proposal, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func validateRequired(title, clientName, clientEmail string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if strings.TrimSpace(clientName) == "" {
		return &ValidationError{Field: "clientName", Reason: "is required"}
	}
	if strings.TrimSpace(clientEmail) == "" {
		return &ValidationError{Field: "clientEmail", Reason: "is required"}
	}
	return nil
}
