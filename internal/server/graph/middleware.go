package graph

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkarpov/shopgraph/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext returns the verified token claims attached by the bearer
// middleware, if the request carried a token.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// withBearerToken verifies an Authorization bearer token when one is present
// and stashes its claims in the request context. Requests without a token
// pass through — signUp and signIn are anonymous by nature — but a token
// that fails verification is rejected outright.
func (h *Handler) withBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			h.writeResponse(w, http.StatusUnauthorized, Response{
				Errors: []ErrorEntry{{Message: "invalid authorization header", Extensions: ErrorExtensions{Code: CodeInvalidToken}}},
			})
			return
		}

		claims, err := h.issuer.Verify(tokenString)
		if err != nil {
			h.writeResponse(w, http.StatusUnauthorized, Response{
				Errors: []ErrorEntry{{Message: "invalid token", Extensions: ErrorExtensions{Code: CodeInvalidToken}}},
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// withTimeout applies the per-request deadline. Resolvers observe it through
// their context; an expired deadline surfaces as UNAVAILABLE.
func (h *Handler) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
