package middleware

import (
	"net/http"
	"strings"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/response"
	"github.com/Hamzabaloch08/taskApp-backend/internal/session"

	"github.com/gin-gonic/gin"
)

const identityKey = "middleware.identity"

// TokenVerifier resolves a raw token into an identity.
type TokenVerifier interface {
	Authenticate(token string) (domain.Identity, error)
}

// Authenticate gates every request except those whose path matches one of
// publicPaths. A pattern ending in "/*" matches everything below it.
func Authenticate(verifier TokenVerifier, transport session.Transport, publicPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublic(c.Request.URL.Path, publicPaths) {
			c.Next()
			return
		}

		token, ok := transport.Token(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "No token provided")
			return
		}

		id, err := verifier.Authenticate(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func isPublic(path string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
