package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/session"
	"go.uber.org/zap"
)

// JWTAuth verifies the bearer token and stores the resulting session in the request
// context. Requests without a valid token are rejected with 401.
func JWTAuth(verifier *session.TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := session.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				log.Debug("JWTAuth: rejected request", zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w, err.Error())
				return
			}
			sess, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "token is invalid")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
