package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/saramagdits/landscaping-saas/internal/auth"
	"github.com/saramagdits/landscaping-saas/internal/company"
	"github.com/saramagdits/landscaping-saas/internal/jobs"
	"github.com/saramagdits/landscaping-saas/internal/proposal"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

type memJobRepo struct {
	jobs map[string]*store.Job
}

func (m *memJobRepo) Insert(ctx context.Context, job *store.Job) error {
	clone := *job
	m.jobs[job.ID] = &clone
	return nil
}

func (m *memJobRepo) GetByID(ctx context.Context, id string) (*store.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (m *memJobRepo) ListByUser(ctx context.Context, userID string, filter store.JobFilter) ([]store.Job, error) {
	var out []store.Job
	for _, job := range m.jobs {
		if job.UserID == userID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *memJobRepo) Update(ctx context.Context, id string, upd store.JobUpdate) error {
	if _, ok := m.jobs[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (m *memJobRepo) Delete(ctx context.Context, id string) error {
	delete(m.jobs, id)
	return nil
}

type memProposalRepo struct {
	proposals map[string]*store.Proposal
}

func (m *memProposalRepo) Insert(ctx context.Context, p *store.Proposal) error {
	clone := *p
	m.proposals[p.ID] = &clone
	return nil
}

func (m *memProposalRepo) GetByID(ctx context.Context, id string) (*store.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *memProposalRepo) ListByUser(ctx context.Context, userID string, filter store.ProposalFilter) ([]store.Proposal, error) {
	var out []store.Proposal
	for _, p := range m.proposals {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProposalRepo) Update(ctx context.Context, id string, upd store.ProposalUpdate) error {
	if _, ok := m.proposals[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (m *memProposalRepo) Delete(ctx context.Context, id string) error {
	delete(m.proposals, id)
	return nil
}

type memCompanyRepo struct{}

func (memCompanyRepo) Get(ctx context.Context, userID string) (*store.CompanyInfo, error) {
	return &store.CompanyInfo{UserID: userID}, nil
}

func (memCompanyRepo) Upsert(ctx context.Context, userID string, upd store.CompanyInfoUpdate) error {
	return nil
}

type testEnv struct {
	handler  http.Handler
	jobRepo  *memJobRepo
	propRepo *memProposalRepo
}

func newTestEnv() *testEnv {
	jobRepo := &memJobRepo{jobs: make(map[string]*store.Job)}
	propRepo := &memProposalRepo{proposals: make(map[string]*store.Proposal)}

	h := NewHandlers(
		jobs.NewService(jobRepo, zerolog.Nop()),
		proposal.NewService(propRepo, zerolog.Nop()),
		company.NewService(memCompanyRepo{}, nil, zerolog.Nop()),
		nil,
	)
	return &testEnv{handler: h.Routes(), jobRepo: jobRepo, propRepo: propRepo}
}

func (e *testEnv) do(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.WithUser(req.Context(), &store.UserProfile{UID: uid, IsActive: true}))

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateJobEndpoint(t *testing.T) {
	env := newTestEnv()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	rec := env.do(t, http.MethodPost, "/jobs", "u1", map[string]any{
		"title": "Mow lawn",
		"start": start,
		"end":   start.Add(time.Hour),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var job store.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.UserID != "u1" || job.Status != store.JobStatusScheduled {
		t.Errorf("job = %+v", job)
	}
}

func TestCreateJobValidationMapsTo400(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/jobs", "u1", map[string]any{"title": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "title") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetJobOwnershipAndNotFound(t *testing.T) {
	env := newTestEnv()
	env.jobRepo.jobs["j1"] = &store.Job{ID: "j1", UserID: "owner", Title: "Mow"}

	if rec := env.do(t, http.MethodGet, "/jobs/j1", "intruder", nil); rec.Code != http.StatusForbidden {
		t.Errorf("foreign get status = %d, want 403", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/jobs/j1", "owner", nil); rec.Code != http.StatusOK {
		t.Errorf("owner get status = %d, want 200", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/jobs/missing", "owner", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing get status = %d, want 404", rec.Code)
	}
}

func TestDeleteJobOwnership(t *testing.T) {
	env := newTestEnv()
	env.jobRepo.jobs["j1"] = &store.Job{ID: "j1", UserID: "owner"}

	if rec := env.do(t, http.MethodDelete, "/jobs/j1", "intruder", nil); rec.Code != http.StatusForbidden {
		t.Errorf("foreign delete status = %d, want 403", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/jobs/j1", "owner", nil); rec.Code != http.StatusNoContent {
		t.Errorf("owner delete status = %d, want 204", rec.Code)
	}
}

func TestListJobsReturnsEmptyArray(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/jobs", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestCreateProposalEndpoint(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/proposals", "u1", map[string]any{
		"title":       "Backyard renovation",
		"clientName":  "Pat Jones",
		"clientEmail": "pat@example.com",
		"taxRate":     8.5,
		"sections": []map[string]any{
			{"title": "Work", "items": []map[string]any{
				{"name": "Sod", "quantity": 1, "unit": "job", "unitPrice": 2200, "category": "labor"},
			}},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p store.Proposal
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Subtotal != 2200 || p.TaxAmount != 187 || p.TotalAmount != 2387 {
		t.Errorf("totals = %v/%v/%v", p.Subtotal, p.TaxAmount, p.TotalAmount)
	}
}

func TestProposalPDFEndpoint(t *testing.T) {
	env := newTestEnv()
	env.propRepo.proposals["p1"] = &store.Proposal{
		ID:          "p1",
		UserID:      "u1",
		Title:       "Backyard renovation",
		ClientName:  "Pat Jones",
		ClientEmail: "pat@example.com",
		Status:      store.ProposalStatusDraft,
		ValidUntil:  time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	rec := env.do(t, http.MethodGet, "/proposals/p1/pdf", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}

	if rec := env.do(t, http.MethodGet, "/proposals/p1/pdf", "intruder", nil); rec.Code != http.StatusForbidden {
		t.Errorf("foreign pdf status = %d, want 403", rec.Code)
	}
}

func TestDeleteProposalIsByID(t *testing.T) {
	env := newTestEnv()
	env.propRepo.proposals["p1"] = &store.Proposal{ID: "p1", UserID: "someone-else"}

	rec := env.do(t, http.MethodDelete, "/proposals/p1", "u1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if _, ok := env.propRepo.proposals["p1"]; ok {
		t.Error("proposal not deleted")
	}
}

func TestCompanyEndpoints(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/company", "u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	name := "GreenScape LLC"
	rec = env.do(t, http.MethodPut, "/company", "u1", map[string]any{"name": name})
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRefreshTokenRequiresBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/auth/refresh-token", "u1", map[string]any{"refresh_token": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
