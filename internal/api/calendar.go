package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saramagdits/landscaping-saas/internal/calendar"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

func (h *Handlers) listCalendars(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	refs, err := h.calendar.ListCalendars(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if refs == nil {
		refs = []store.CalendarRef{}
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *Handlers) disconnectCalendar(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if err := h.calendar.Disconnect(r.Context(), user.UID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listEvents(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	calendarID := r.URL.Query().Get("calendarId")
	if calendarID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "calendarId is required")
		return
	}

	events, err := h.calendar.ListEvents(r.Context(), user.UID, calendarID,
		r.URL.Query().Get("timeMin"), r.URL.Query().Get("timeMax"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handlers) createEvent(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	calendarID := r.URL.Query().Get("calendarId")
	if calendarID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "calendarId is required")
		return
	}

	var event calendar.Event
	if err := decodeJSON(r, &event); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.calendar.CreateEvent(r.Context(), user.UID, calendarID, event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) updateEvent(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	calendarID := r.URL.Query().Get("calendarId")
	if calendarID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "calendarId is required")
		return
	}

	var event calendar.Event
	if err := decodeJSON(r, &event); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.calendar.UpdateEvent(r.Context(), user.UID, calendarID, chi.URLParam(r, "eventID"), event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) deleteEvent(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	calendarID := r.URL.Query().Get("calendarId")
	if calendarID == "" {
		writeErrorJSON(w, http.StatusBadRequest, "calendarId is required")
		return
	}

	if err := h.calendar.DeleteEvent(r.Context(), user.UID, calendarID, chi.URLParam(r, "eventID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
