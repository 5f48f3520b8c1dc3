package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	adminTokenHeader     = "X-Admin-Token"
	passengerEmailHeader = "X-Passenger-Email"
)

// AdminAuth guards administrative routes. The token travels in a request
// header; an unset server token rejects every admin request rather than
// opening the routes up.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !adminRequest(c, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		c.Next()
	}
}

func adminRequest(c *gin.Context, token string) bool {
	if token == "" {
		return false
	}
	presented := c.GetHeader(adminTokenHeader)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
}
