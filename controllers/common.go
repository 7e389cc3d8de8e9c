package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise/middleware"
	"github.com/wastewise/wastewise/models"
)

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(ctx *gin.Context) uint {
	if v, ok := ctx.Get(middleware.ContextUserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// currentCompanyID pulls the authenticated user's company scope.
func currentCompanyID(ctx *gin.Context) uint {
	if v, ok := ctx.Get(middleware.ContextCompanyIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// isAdmin reports whether the requester carries the admin role.
func isAdmin(ctx *gin.Context) bool {
	if v, ok := ctx.Get(middleware.ContextRoleKey); ok {
		if r, ok := v.(string); ok {
			return r == models.RoleAdmin
		}
	}
	return false
}

// parsePagination reads page/page_size query params with bounded defaults.
func parsePagination(ctx *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// parseIDParam parses the :id path segment.
func parseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
