package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
)

const identityKey = "identity"

// SessionTransport moves session tokens in and out of HTTP messages
type SessionTransport interface {
	Attach(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
	Resolve(r *http.Request) (domain.Identity, bool)
}

// SessionMiddleware resolves the caller from the session cookie and stores
// the identity in the context. It never rejects a request.
func SessionMiddleware(transport SessionTransport) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := transport.Resolve(c.Request); ok {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// RequireSession aborts with 401 unless SessionMiddleware resolved a caller
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentIdentity(c); !ok {
			writeError(c, domain.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
