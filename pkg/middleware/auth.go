package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/contextkeys"
	"github.com/mockerhub/registry/pkg/credentials"
	"github.com/mockerhub/registry/pkg/httputil"
	"github.com/mockerhub/registry/pkg/registry"
)

// Authenticator decodes Bearer tokens into request-scoped claims.
type Authenticator struct {
	codec *credentials.TokenCodec
	log   *logrus.Logger
}

// NewAuthenticator creates an authenticator verifying tokens with codec.
func NewAuthenticator(codec *credentials.TokenCodec, log *logrus.Logger) *Authenticator {
	return &Authenticator{codec: codec, log: log}
}

// Authenticate parses the Authorization header when present. A missing
// header passes through with no claims so optionally-authenticated routes
// work; a present but invalid token is rejected outright.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			httputil.WriteDomainError(a.log, w, registry.ErrInvalidToken)
			return
		}

		claims, err := a.codec.Verify(token)
		if err != nil {
			httputil.WriteDomainError(a.log, w, err)
			return
		}

		ctx := contextkeys.WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by Authenticate, or nil for
// anonymous requests.
func ClaimsFromContext(ctx context.Context) *credentials.Claims {
	claims, _ := ctx.Value(contextkeys.ClaimsKey).(*credentials.Claims)
	return claims
}
