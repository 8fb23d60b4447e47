package transport

import (
	"net/http"

	"cookie-shop/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// currentUserID extracts the authenticated caller's id from the request
// context. Returns false when the context carries no parsable user id.
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// idParam parses the named chi URL parameter as a UUID
func idParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
