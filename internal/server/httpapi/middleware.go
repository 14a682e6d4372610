package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dpetukhov/srpvault/internal/common"
	"github.com/dpetukhov/srpvault/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// requireAuth validates the Bearer token and stores the authenticated user
// ID in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, authFailedMessage)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, authFailedMessage)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
