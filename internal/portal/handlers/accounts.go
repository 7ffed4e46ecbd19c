package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/psgplacements/interview-platform/internal/portal/controller"
	"github.com/psgplacements/interview-platform/internal/portal/models"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, users)
}

// updateUserRole serves PUT /api/admin/users/{id}/role. Promotion to admin
// carries either new credentials or an existing credential ID in the body.
func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid user ID")
		return
	}

	var body struct {
		Role        string `json:"role"`
		Credentials *struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"credentials"`
		CredentialID *uuid.UUID `json:"credentialId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	change := controller.RoleChange{
		Role:         models.Role(body.Role),
		CredentialID: body.CredentialID,
	}
	if body.Credentials != nil {
		change.Credential = &controller.NewCredential{
			Username: body.Credentials.Username,
			Password: body.Credentials.Password,
		}
	}

	user, err := h.accounts.UpdateRole(r.Context(), id, change)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *Handler) createCredential(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid request body")
		return
	}

	cred, err := h.accounts.CreateCredential(r.Context(), controller.NewCredential{
		Username: body.Username,
		Password: body.Password,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, cred)
}

func (h *Handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	unassignedOnly := r.URL.Query().Get("unassigned") == "true"

	creds, err := h.accounts.ListCredentials(r.Context(), unassignedOnly)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, creds)
}
