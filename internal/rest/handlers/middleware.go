package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todotrek/internal/rest/response"
)

const actorKey = "actorID"

// Authenticator resolves an access token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireToken rejects requests without a valid bearer token and stores the
// caller's user id in the context.
func RequireToken(auth Authenticator, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractTokenFromHeaders(c)
		if token == "" {
			response.HandleError(response.NewUnauthorizedError(), c)
			return
		}
		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).WithField("path", c.FullPath()).Debug("token rejected")
			response.HandleError(response.ResolveError(err), c)
			return
		}
		c.Set(actorKey, userID)
		c.Next()
	}
}

// ExtractTokenFromHeaders returns the bearer token from Authorization.
func ExtractTokenFromHeaders(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func actorID(c *gin.Context) string {
	return c.GetString(actorKey)
}
