package api

import (
	"net/http"

	"github.com/saramagdits/landscaping-saas/internal/company"
	"github.com/saramagdits/landscaping-saas/internal/store"
)

func (h *Handlers) getCompany(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	info, err := h.company.Get(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type companyUpdateRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
}

func (h *Handlers) updateCompany(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req companyUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// LogoURL is deliberately absent: it only changes via the upload and
	// delete endpoints.
	info, err := h.company.Update(r.Context(), user.UID, store.CompanyInfoUpdate{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handlers) uploadLogo(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	// Cap the multipart read slightly above the logo limit so oversized
	// uploads fail fast with a clear message instead of an opaque one.
	r.Body = http.MaxBytesReader(w, r.Body, company.MaxLogoSize+1024*1024)
	if err := r.ParseMultipartForm(company.MaxLogoSize); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := h.company.UploadLogo(r.Context(), user.UID, header.Filename, contentType, header.Size, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"logoUrl": url})
}

func (h *Handlers) deleteLogo(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if err := h.company.DeleteLogo(r.Context(), user.UID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
