package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/market_api/internal/policy"
	"github.com/GTDGit/market_api/internal/utils"
)

const principalKey = "principal"

// AuthMiddleware resolves bearer access tokens into a policy.Principal.
type AuthMiddleware struct {
	jwt *utils.JWTManager
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(jwt *utils.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Handle returns a Gin middleware that attaches the caller's principal to the
// context. A missing or invalid token leaves the request anonymous; services
// decide whether anonymous access is enough.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := policy.Anonymous()

		authHeader := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
			claims, err := m.jwt.Validate(strings.TrimSpace(token), utils.TokenAccess)
			if err != nil {
				log.Debug().
					Err(err).
					Str("request_id", c.GetString("request_id")).
					Msg("Ignoring invalid access token")
			} else {
				p = policy.Principal{UserID: claims.UserID, IsAdmin: claims.IsAdmin}
			}
		}

		c.Set(principalKey, p)
		c.Set("user_id", p.UserID)
		c.Next()
	}
}

// GetPrincipal returns the principal attached by AuthMiddleware, or the
// anonymous principal when none is set.
func GetPrincipal(c *gin.Context) policy.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return policy.Anonymous()
	}
	p, ok := v.(policy.Principal)
	if !ok {
		return policy.Anonymous()
	}
	return p
}
