// This is a **mock authentication service** for local development: it issues
// portal session cookies so the main service can be exercised without the
// institute's SSO in front of it.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/psgplacements/interview-platform/internal/portal/auth"
	"github.com/psgplacements/interview-platform/internal/portal/models"
)

const (
	defaultPort   = "8081"       // Default port for the authentication service
	defaultSecret = "jwt_secret" // Secret for signing JWT
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token string `json:"token"`
}

// tokenHandler generates a session token, sets it as the httpOnly session
// cookie and returns it in the JSON response.
// Query params: user (default "student-1"), email, role (student|moderator|admin).
func tokenHandler(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = defaultSecret
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = "student-1"
	}
	email := r.URL.Query().Get("email")
	role := models.Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		role = models.RoleStudent
	}

	token, err := auth.GenerateToken(userID, email, role, secret)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(token))

	resp := TokenResponse{Token: token}
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		http.Error(w, "Failed to encode token", http.StatusInternalServerError)
	}
}

func main() {
	// TODO: move to env or config
	port := defaultPort
	http.HandleFunc("/token", tokenHandler)

	log.Printf("Authentication service running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}
