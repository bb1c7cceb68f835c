package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sessionplanner/internal/core"
)

// maxOwnerIDLength bounds the owner header so it cannot be used to stuff
// arbitrary data into cache keys and log lines.
const maxOwnerIDLength = 128

// OwnerID returns middleware that reads the owning user's id from header and
// stores it in the request context. Requests without it are rejected, since
// every import and session is scoped to an owner.
func OwnerID(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(header))
			if owner == "" || len(owner) > maxOwnerIDLength {
				slog.Warn("auth: missing or invalid owner id",
					"path", r.URL.Path,
					"method", r.Method,
					"header", header,
				)
				writeJSONError(w, http.StatusUnauthorized, `{"error":"missing owner id","code":"AUTH_MISSING_OWNER"}`)
				return
			}

			recordOwner(w, owner)
			next.ServeHTTP(w, r.WithContext(core.ContextWithOwnerID(r.Context(), owner)))
		})
	}
}
