package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saramagdits/landscaping-saas/internal/jobs"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

func (h *Handlers) listJobs(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	filter := store.JobFilter{
		Status:   store.JobStatus(r.URL.Query().Get("status")),
		Priority: store.JobPriority(r.URL.Query().Get("priority")),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "from must be RFC3339")
			return
		}
		filter.StartDate = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "to must be RFC3339")
			return
		}
		filter.EndDate = &t
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeErrorJSON(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	list, err := h.jobs.List(r.Context(), user.UID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Job{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) createJob(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var in jobs.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := h.jobs.Create(r.Context(), user.UID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *Handlers) getJob(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job.UserID != user.UID {
		writeErrorJSON(w, http.StatusForbidden, "access denied")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type jobUpdateRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Start       *time.Time         `json:"start"`
	End         *time.Time         `json:"end"`
	Location    *string            `json:"location"`
	Client      *string            `json:"client"`
	Status      *store.JobStatus   `json:"status"`
	Priority    *store.JobPriority `json:"priority"`
	AssignedTo  *string            `json:"assignedTo"`
	Notes       *string            `json:"notes"`
}

func (h *Handlers) updateJob(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job.UserID != user.UID {
		writeErrorJSON(w, http.StatusForbidden, "access denied")
		return
	}

	var req jobUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := store.JobUpdate{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Location:    req.Location,
		Client:      req.Client,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Notes:       req.Notes,
	}
	if err := h.jobs.Update(r.Context(), id, upd); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) deleteJob(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if err := h.jobs.Delete(r.Context(), user.UID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) jobStats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	stats, err := h.jobs.Stats(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) searchJobs(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	list, err := h.jobs.Search(r.Context(), user.UID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Job{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) upcomingJobs(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	list, err := h.jobs.Upcoming(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Job{}
	}
	writeJSON(w, http.StatusOK, list)
}
