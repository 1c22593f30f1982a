// Package api exposes the JSON REST surface for authenticated clients.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saramagdits/landscaping-saas/internal/auth"
	"github.com/saramagdits/landscaping-saas/internal/calendar"
	"github.com/saramagdits/landscaping-saas/internal/company"
	"github.com/saramagdits/landscaping-saas/internal/jobs"
	"github.com/saramagdits/landscaping-saas/internal/proposal"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

// Handlers wires the domain services into HTTP endpoints. All routes assume
// the session middleware has already placed the user in the context.
type Handlers struct {
	jobs      *jobs.Service
	proposals *proposal.Service
	company   *company.Service
	calendar  *calendar.Service
}

func NewHandlers(jobsSvc *jobs.Service, proposalSvc *proposal.Service, companySvc *company.Service, calendarSvc *calendar.Service) *Handlers {
	return &Handlers{
		jobs:      jobsSvc,
		proposals: proposalSvc,
		company:   companySvc,
		calendar:  calendarSvc,
	}
}

// Routes returns the authenticated API router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/profile", h.getProfile)

	r.Post("/auth/refresh-token", h.refreshToken)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.listJobs)
		r.Post("/", h.createJob)
		r.Get("/stats", h.jobStats)
		r.Get("/search", h.searchJobs)
		r.Get("/upcoming", h.upcomingJobs)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getJob)
			r.Put("/", h.updateJob)
			r.Delete("/", h.deleteJob)
		})
	})

	r.Route("/proposals", func(r chi.Router) {
		r.Get("/", h.listProposals)
		r.Post("/", h.createProposal)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getProposal)
			r.Put("/", h.updateProposal)
			r.Delete("/", h.deleteProposal)
			r.Put("/status", h.updateProposalStatus)
			r.Get("/pdf", h.proposalPDF)
		})
	})

	r.Route("/company", func(r chi.Router) {
		r.Get("/", h.getCompany)
		r.Put("/", h.updateCompany)
		r.Post("/logo", h.uploadLogo)
		r.Delete("/logo", h.deleteLogo)
	})

	r.Route("/calendar", func(r chi.Router) {
		r.Get("/calendars", h.listCalendars)
		r.Post("/disconnect", h.disconnectCalendar)
		r.Get("/events", h.listEvents)
		r.Post("/events", h.createEvent)
		r.Put("/events/{eventID}", h.updateEvent)
		r.Delete("/events/{eventID}", h.deleteEvent)
	})

	return r
}

// currentUser pulls the authenticated profile from the context. The session
// middleware guarantees it is present on these routes.
func currentUser(r *http.Request) *store.UserProfile {
	user, _ := auth.UserFromContext(r.Context())
	return user
}

func (h *Handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (h *Handlers) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeErrorJSON(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	resp, err := h.calendar.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
