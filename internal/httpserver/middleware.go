package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/sami992010/ProBTC/internal/auth"
	"github.com/sami992010/ProBTC/internal/httputil"
)

type ctxKey string

const identityKey ctxKey = "identity"

func WithAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "missing bearer token"})
				return
			}
			id, err := svc.ParseToken(parts[1])
			if err != nil {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "invalid token"})
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CallerIdentity(r *http.Request) (auth.Identity, bool) {
	v := r.Context().Value(identityKey)
	if v == nil {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
