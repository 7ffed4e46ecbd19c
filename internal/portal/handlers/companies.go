package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/psgplacements/interview-platform/internal/portal/models"
)

// searchCompanies serves GET /api/companies/search?query=&includeAppData=.
// Public: students search before submitting a creation request.
func (h *Handler) searchCompanies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	includeAppData := r.URL.Query().Get("includeAppData") == "true"

	result, err := h.directory.Search(r.Context(), query, includeAppData)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, result.Hint, result.Companies)
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var company models.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	created, err := h.directory.CreateCompany(r.Context(), &company)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid company ID")
		return
	}

	company, err := h.directory.GetCompany(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, company)
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.directory.ListCompanies(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, companies)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid company ID")
		return
	}

	var update models.CompanyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}
	update.ID = id

	updated, err := h.directory.UpdateCompany(r.Context(), &update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid company ID")
		return
	}

	if err := h.directory.DeleteCompany(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "company deleted", nil)
}
