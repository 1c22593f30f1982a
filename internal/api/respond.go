package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saramagdits/landscaping-saas/internal/calendar"
	"github.com/saramagdits/landscaping-saas/internal/company"
	httperrors "github.com/saramagdits/landscaping-saas/internal/http/errors"
	"github.com/saramagdits/landscaping-saas/internal/jobs"
	"github.com/saramagdits/landscaping-saas/internal/proposal"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeError maps domain errors onto HTTP statuses. Unknown errors become
// opaque 500s; their details go to the log only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var jobsInvalid *jobs.ValidationError
	var proposalInvalid *proposal.ValidationError
	var companyInvalid *company.ValidationError
	var apiErr *calendar.APIError

	switch {
	case errors.As(err, &jobsInvalid):
		writeErrorJSON(w, http.StatusBadRequest, jobsInvalid.Error())
	case errors.As(err, &proposalInvalid):
		writeErrorJSON(w, http.StatusBadRequest, proposalInvalid.Error())
	case errors.As(err, &companyInvalid):
		writeErrorJSON(w, http.StatusBadRequest, companyInvalid.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErrorJSON(w, http.StatusNotFound, "not found")
	case errors.Is(err, jobs.ErrAccessDenied):
		writeErrorJSON(w, http.StatusForbidden, "access denied")
	case errors.Is(err, calendar.ErrNotConnected):
		writeErrorJSON(w, http.StatusBadRequest, "calendar not connected")
	case errors.As(err, &apiErr):
		httperrors.LogWarn(r, "calendar upstream error", err)
		writeErrorJSON(w, http.StatusBadGateway, apiErr.Error())
	default:
		httperrors.LogError(r, "request failed", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}
