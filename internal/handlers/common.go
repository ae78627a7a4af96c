package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bytehub/bytehub/internal/middleware"
	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/response"
)

// currentUser rebuilds the acting user from the verified JWT claims.
// ID, name and role are all the access rules ever look at, so no
// database round-trip is needed per request.
func currentUser(c *gin.Context) *models.User {
	return &models.User{
		ID:   middleware.GetUserID(c),
		Name: middleware.GetUsername(c),
		Role: middleware.GetRole(c),
	}
}

// pathID parses a numeric path parameter, replying 400 on garbage.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
