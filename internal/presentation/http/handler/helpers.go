package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/pkg/apperror"
)

// GetSessionID extracts the console session ID from the Gin context
func GetSessionID(c *gin.Context) uuid.UUID {
	value, exists := c.Get("session_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetUser extracts the signed-in user from the Gin context
func GetUser(c *gin.Context) *entity.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, _ := value.(*entity.User)
	return user
}

// GetCredentials extracts the backend credentials of the session
func GetCredentials(c *gin.Context) *posapi.Credentials {
	value, exists := c.Get("credentials")
	if !exists {
		return nil
	}
	creds, _ := value.(*posapi.Credentials)
	return creds
}

// GetActor builds the actor of a sale operation
func GetActor(c *gin.Context) service.Actor {
	return service.Actor{SessionID: GetSessionID(c).String(), User: GetUser(c)}
}

// BusinessID resolves the business the signed-in user acts for
func BusinessID(c *gin.Context) (string, error) {
	user := GetUser(c)
	if user == nil {
		return "", apperror.ErrUnauthorized
	}
	id, ok := user.BusinessContext()
	if !ok {
		return "", apperror.ErrMissingBusinessContext
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (string, bool) {
	id := strings.TrimSpace(c.Param(name))
	return id, id != ""
}
