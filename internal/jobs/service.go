// Package jobs implements scheduling and tracking of landscaping jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saramagdits/landscaping-saas/internal/store"
)

// ErrAccessDenied is returned when a user operates on a job they do not own.
var ErrAccessDenied = errors.New("access denied")

// ValidationError reports invalid job input; handlers map it to a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid job: %s %s", e.Field, e.Reason)
}

// Stats summarizes a user's jobs by status and priority.
type Stats struct {
	Total      int                       `json:"total"`
	ByStatus   map[store.JobStatus]int   `json:"byStatus"`
	ByPriority map[store.JobPriority]int `json:"byPriority"`
}

// Service owns job lifecycle rules on top of the repository.
type Service struct {
	repo store.JobRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo store.JobRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// CreateInput carries the caller-supplied fields for a new job.
type CreateInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Location    string            `json:"location"`
	Client      string            `json:"client"`
	Status      store.JobStatus   `json:"status"`
	Priority    store.JobPriority `json:"priority"`
	AssignedTo  string            `json:"assignedTo"`
	Notes       string            `json:"notes"`
}

// Create validates and stores a new job for the user.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*store.Job, error) {
	if err := validateCore(in.Title, in.Start, in.End); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := &store.Job{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		Location:    in.Location,
		Client:      in.Client,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if job.Status == "" {
		job.Status = store.JobStatusScheduled
	}
	if job.Priority == "" {
		job.Priority = store.JobPriorityMedium
	}

	if err := s.repo.Insert(ctx, job); err != nil {
		return nil, err
	}
	s.log.Info().Str("job_id", job.ID).Str("user_id", userID).Msg("job created")
	return job, nil
}

func (s *Service) Get(ctx context.Context, id string) (*store.Job, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update. Time bounds are re-validated only when the
// payload supplies both; a single bound is applied as-is and left to the
// database constraint.
func (s *Service) Update(ctx context.Context, id string, upd store.JobUpdate) error {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if upd.Start != nil && upd.End != nil && !upd.End.After(*upd.Start) {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes a job after confirming the caller owns it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.UserID != userID {
		return ErrAccessDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("job_id", id).Str("user_id", userID).Msg("job deleted")
	return nil
}

func (s *Service) List(ctx context.Context, userID string, filter store.JobFilter) ([]store.Job, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func (s *Service) ByDateRange(ctx context.Context, userID string, start, end time.Time) ([]store.Job, error) {
	return s.repo.ListByUser(ctx, userID, store.JobFilter{StartDate: &start, EndDate: &end})
}

func (s *Service) ByStatus(ctx context.Context, userID string, status store.JobStatus) ([]store.Job, error) {
	return s.repo.ListByUser(ctx, userID, store.JobFilter{Status: status})
}

func (s *Service) ByPriority(ctx context.Context, userID string, priority store.JobPriority) ([]store.Job, error) {
	return s.repo.ListByUser(ctx, userID, store.JobFilter{Priority: priority})
}

// Upcoming returns scheduled jobs starting within the next seven days.
func (s *Service) Upcoming(ctx context.Context, userID string) ([]store.Job, error) {
	now := s.now().UTC()
	end := now.Add(7 * 24 * time.Hour)
	return s.repo.ListByUser(ctx, userID, store.JobFilter{
		Status:    store.JobStatusScheduled,
		StartDate: &now,
		EndDate:   &end,
	})
}

// Search matches the term case-insensitively against title, description,
// client, and location.
func (s *Service) Search(ctx context.Context, userID, term string) ([]store.Job, error) {
	all, err := s.repo.ListByUser(ctx, userID, store.JobFilter{})
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all, nil
	}

	var matched []store.Job
	for _, job := range all {
		if jobMatches(&job, term) {
			matched = append(matched, job)
		}
	}
	return matched, nil
}

// Stats aggregates the user's jobs in memory; the per-user job count stays
// small enough that a dedicated query is not worth it.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	all, err := s.repo.ListByUser(ctx, userID, store.JobFilter{})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:      len(all),
		ByStatus:   make(map[store.JobStatus]int),
		ByPriority: make(map[store.JobPriority]int),
	}
	for _, job := range all {
		stats.ByStatus[job.Status]++
		stats.ByPriority[job.Priority]++
	}
	return stats, nil
}

func validateCore(title string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if start.IsZero() {
		return &ValidationError{Field: "start", Reason: "is required"}
	}
	if end.IsZero() {
		return &ValidationError{Field: "end", Reason: "is required"}
	}
	if !end.After(start) {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return nil
}

func jobMatches(job *store.Job, term string) bool {
	for _, field := range []string{job.Title, job.Description, job.Client, job.Location} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
