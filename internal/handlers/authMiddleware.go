package handlers

import (
	"context"
	"net/http"
	"strings"

	models "zetaexams/internal/models"
	"zetaexams/internal/utility"
	http2 "zetaexams/internal/utility/http"
)

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AdminAuthenticationMiddleware rejects requests without a valid admin token
// and stores the token's claims under models.ContextAdmin.
func (h *Handler) AdminAuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http2.RespondError(w, http.StatusUnauthorized, "No token provided", nil)
			return
		}
		claims, err := h.Tokens.ValidateAdminToken(token)
		if err != nil {
			http2.RespondError(w, http.StatusUnauthorized, "Invalid or expired token", err)
			return
		}
		ctx := context.WithValue(r.Context(), models.ContextAdmin, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminFromContext returns the claims set by AdminAuthenticationMiddleware.
func AdminFromContext(ctx context.Context) (*utility.AdminClaims, bool) {
	claims, ok := ctx.Value(models.ContextAdmin).(*utility.AdminClaims)
	return claims, ok
}
