package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/database"
	"github.com/princinho/callboard/models"
	"github.com/princinho/callboard/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	userKey    = "user"
	sessionKey = "session"
)

// Authorize verifies the bearer token, then loads the user and the session it
// names. A token whose session was deleted at logout is rejected even though
// its signature still verifies.
func Authorize(users database.UserStore, sessions database.SessionStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "No token provided"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		userID, errUser := bson.ObjectIDFromHex(claims.UserID)
		sessionID, errSession := bson.ObjectIDFromHex(claims.SessionID)
		if errUser != nil || errSession != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			abortLookup(c, err, "Invalid user")
			return
		}
		session, err := sessions.FindByID(ctx, sessionID)
		if err != nil {
			abortLookup(c, err, "Invalid session")
			return
		}

		c.Set(userKey, user)
		c.Set(sessionKey, session)
		c.Next()
	}
}

func abortLookup(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, database.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": notFoundMsg})
		return
	}
	log.Printf("authorize lookup failed: %v", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// CurrentUser returns the user stored by Authorize.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentSession returns the session stored by Authorize.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}
