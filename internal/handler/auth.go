package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// defaultUserId owns jobs created without a token, the normal case for a
// single-user local deployment.
const defaultUserId = "local"

// userIdFromRequest extracts the caller identity from a bearer token. Real
// authentication is out of scope; the token value itself acts as the user id
// so a multi-user frontend still gets scoped history.
func userIdFromRequest(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" {
		return defaultUserId
	}
	return token
}
