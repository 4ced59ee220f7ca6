package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/folio/utils"
)

const (
	// ContextUserIDKey stores the authenticated user ID in the gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username.
	ContextUsernameKey = "username"
	// ContextClaimsKey stores the parsed token claims, used by logout.
	ContextClaimsKey = "claims"
	// ContextTokenKey stores the raw bearer token.
	ContextTokenKey = "token"
)

// AuthRequired ensures the request carries a valid, unrevoked bearer token.
func AuthRequired(issuer *utils.TokenIssuer, blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			return
		}

		if blacklist != nil && blacklist.Revoked(ctx.Request.Context(), token) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			return
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// CurrentUserID returns the authenticated user, zero when absent.
func CurrentUserID(ctx *gin.Context) uint {
	return ctx.GetUint(ContextUserIDKey)
}

// CurrentUsername returns the authenticated username.
func CurrentUsername(ctx *gin.Context) string {
	return ctx.GetString(ContextUsernameKey)
}
