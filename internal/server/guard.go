package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// withEmployerGuard protects employer endpoints with a shared token, passed
// either as X-Joppa-Admin or as a bearer token. An empty configured token
// disables the guard entirely (local and demo deployments).
func (s *Server) withEmployerGuard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			next(w, r)
			return
		}

		token := r.Header.Get("X-Joppa-Admin")
		if token == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next(w, r)
	}
}
