package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/dto/response"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/middleware"
)

// requireOwner returns the authenticated owner or writes a 401
func requireOwner(c *gin.Context) (uuid.UUID, bool) {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return ownerID, true
}

// timeFrame reads ?timeFrame=. A missing value falls back to def, an unknown one means lifetime.
func timeFrame(c *gin.Context, def enum.TimeFrame) enum.TimeFrame {
	raw := c.Query("timeFrame")
	if raw == "" {
		return def
	}
	return enum.ParseTimeFrame(raw)
}
