package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/psgplacements/interview-platform/internal/portal/auth"
	"github.com/psgplacements/interview-platform/internal/portal/controller"
	"github.com/psgplacements/interview-platform/internal/portal/models"
)

// submitRequest serves POST /api/users/request-company-creation. The
// requester identity comes from the session, never the body.
func (h *Handler) submitRequest(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	var body struct {
		CompanyName string `json:"companyName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	req, err := h.moderation.Submit(r.Context(), body.CompanyName, controller.Identity{
		ID:    session.UserID,
		Email: session.Email,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Company creation request submitted for review", req)
}

// listRequests serves GET /api/admin/company-requests?status=.
func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")

	requests, err := h.moderation.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, requests)
}

// approveRequest serves POST /api/admin/company-requests/{id}/approve.
func (h *Handler) approveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request ID")
		return
	}

	var body struct {
		CompanyData *models.Company `json:"companyData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	req, err := h.moderation.Approve(r.Context(), id, body.CompanyData)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, req)
}

// rejectRequest serves POST /api/admin/company-requests/{id}/reject. An
// empty reason is allowed and stored verbatim.
func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request ID")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	req, err := h.moderation.Reject(r.Context(), id, body.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, req)
}

// changeRequestStatus serves PUT /api/admin/company-requests/{id}/change-status,
// the administrative force transition.
func (h *Handler) changeRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request ID")
		return
	}

	var body struct {
		NewStatus string `json:"newStatus"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	req, err := h.moderation.ForceStatus(r.Context(), id, models.RequestStatus(body.NewStatus), body.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, req)
}
