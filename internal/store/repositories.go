package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository defines persistence operations for user profiles.
type UserRepository interface {
	GetByUID(ctx context.Context, uid string) (*UserProfile, error)
	Create(ctx context.Context, profile *UserProfile) error
	// RecordLogin merges login stats into an existing profile: it bumps the
	// login counter, refreshes lastSeen/lastLoginAt, and takes fresher
	// identity fields from the provider when present.
	RecordLogin(ctx context.Context, uid string, login LoginUpdate) (*UserProfile, error)
	// SaveCalendarLink replaces the embedded calendar connection state.
	SaveCalendarLink(ctx context.Context, uid string, link CalendarLink) error
}

// LoginUpdate carries the identity fields observed at sign-in time.
type LoginUpdate struct {
	Email         string
	DisplayName   string
	PhotoURL      string
	EmailVerified bool
}

// JobFilter narrows job listings. All set fields combine with logical AND.
type JobFilter struct {
	Status    JobStatus
	Priority  JobPriority
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// JobUpdate carries a partial job mutation; nil fields are left unchanged.
type JobUpdate struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Location    *string
	Client      *string
	Status      *JobStatus
	Priority    *JobPriority
	AssignedTo  *string
	Notes       *string
}

// JobRepository handles job storage, always scoped by owner.
type JobRepository interface {
	Insert(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	ListByUser(ctx context.Context, userID string, filter JobFilter) ([]Job, error)
	Update(ctx context.Context, id string, upd JobUpdate) error
	Delete(ctx context.Context, id string) error
}

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	Status    ProposalStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// ProposalUpdate carries a partial proposal mutation; nil fields are left
// unchanged. Totals accompany Sections whenever sections change.
type ProposalUpdate struct {
	Title              *string
	ClientName         *string
	ClientEmail        *string
	ClientPhone        *string
	ClientAddress      *string
	ProjectAddress     *string
	ProjectDescription *string
	EstimatedStartDate *time.Time
	EstimatedDuration  *int
	Sections           []ProposalSection
	Subtotal           *float64
	TaxRate            *float64
	TaxAmount          *float64
	TotalAmount        *float64
	Terms              *string
	Notes              *string
	Status             *ProposalStatus
	ValidUntil         *time.Time
}

// ProposalRepository handles proposal storage.
type ProposalRepository interface {
	Insert(ctx context.Context, p *Proposal) error
	GetByID(ctx context.Context, id string) (*Proposal, error)
	ListByUser(ctx context.Context, userID string, filter ProposalFilter) ([]Proposal, error)
	Update(ctx context.Context, id string, upd ProposalUpdate) error
	Delete(ctx context.Context, id string) error
}

// CompanyInfoUpdate carries a partial company-profile mutation.
type CompanyInfoUpdate struct {
	Name    *string
	Address *string
	City    *string
	State   *string
	ZipCode *string
	Phone   *string
	Email   *string
	Website *string
	LogoURL *string
}

// CompanyRepository handles the per-user company profile document.
type CompanyRepository interface {
	// Get returns the stored company info, or a zero-valued default record
	// when none exists yet.
	Get(ctx context.Context, userID string) (*CompanyInfo, error)
	Upsert(ctx context.Context, userID string, upd CompanyInfoUpdate) error
}
