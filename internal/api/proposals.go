package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saramagdits/landscaping-saas/internal/pdf"
	"github.com/saramagdits/landscaping-saas/internal/proposal"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

func (h *Handlers) listProposals(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	filter := store.ProposalFilter{
		Status: store.ProposalStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeErrorJSON(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	list, err := h.proposals.List(r.Context(), user.UID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Proposal{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) createProposal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var in proposal.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.proposals.Create(r.Context(), user.UID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) getProposal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	p, err := h.proposals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.UserID != user.UID {
		writeErrorJSON(w, http.StatusForbidden, "access denied")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type proposalUpdateRequest struct {
	Title              *string                 `json:"title"`
	ClientName         *string                 `json:"clientName"`
	ClientEmail        *string                 `json:"clientEmail"`
	ClientPhone        *string                 `json:"clientPhone"`
	ClientAddress      *string                 `json:"clientAddress"`
	ProjectAddress     *string                 `json:"projectAddress"`
	ProjectDescription *string                 `json:"projectDescription"`
	EstimatedStartDate *time.Time              `json:"estimatedStartDate"`
	EstimatedDuration  *int                    `json:"estimatedDuration"`
	Sections           []store.ProposalSection `json:"sections"`
	TaxRate            *float64                `json:"taxRate"`
	Terms              *string                 `json:"terms"`
	Notes              *string                 `json:"notes"`
	Status             *store.ProposalStatus   `json:"status"`
	ValidUntil         *time.Time              `json:"validUntil"`
}

func (h *Handlers) updateProposal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	p, err := h.proposals.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.UserID != user.UID {
		writeErrorJSON(w, http.StatusForbidden, "access denied")
		return
	}

	var req proposalUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := store.ProposalUpdate{
		Title:              req.Title,
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		ClientPhone:        req.ClientPhone,
		ClientAddress:      req.ClientAddress,
		ProjectAddress:     req.ProjectAddress,
		ProjectDescription: req.ProjectDescription,
		EstimatedStartDate: req.EstimatedStartDate,
		EstimatedDuration:  req.EstimatedDuration,
		Sections:           req.Sections,
		TaxRate:            req.TaxRate,
		Terms:              req.Terms,
		Notes:              req.Notes,
		Status:             req.Status,
		ValidUntil:         req.ValidUntil,
	}
	if err := h.proposals.Update(r.Context(), id, upd); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.proposals.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) updateProposalStatus(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := chi.URLParam(r, "id")

	p, err := h.proposals.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.UserID != user.UID {
		writeErrorJSON(w, http.StatusForbidden, "access denied")
		return
	}

	var req struct {
		Status store.ProposalStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.proposals.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteProposal(w http.ResponseWriter, r *http.Request) {
	if err := h.proposals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) proposalPDF(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	p, err := h.proposals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.UserID != user.UID {
		writeErrorJSON(w, http.StatusForbidden, "access denied")
		return
	}

	info, err := h.company.Get(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := pdf.RenderProposal(p, info)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "proposal-"+p.ID+".pdf"))
	w.Write(data)
}
