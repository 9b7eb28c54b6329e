// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"slices"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// currentUserID reads the authenticated user's ID set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("userID").(uuid.UUID)

	return userID, ok
}

// currentActor builds the acting identity from the auth middleware's context
// values.
func currentActor(c echo.Context) (usecase.Actor, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return usecase.Actor{}, false
	}

	roles, _ := c.Get("roles").([]string)

	return usecase.Actor{
		UserID:  userID,
		IsAdmin: slices.Contains(roles, entity.RoleAdmin.String()),
	}, true
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}
