package handlers

import (
	"net/http"

	"github.com/psgplacements/interview-platform/internal/portal/auth"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	notifications, err := h.notifications.List(r.Context(), session.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, notifications)
}

// markNotificationRead returns the refreshed list so clients render the
// server-acknowledged state instead of mutating locally.
func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid notification ID")
		return
	}

	notifications, err := h.notifications.MarkRead(r.Context(), id, session.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, notifications)
}

func (h *Handler) clearNotifications(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())

	notifications, err := h.notifications.ClearAll(r.Context(), session.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, notifications)
}
