package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/shared/constants"
	"github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/utils"
)

// currentUserID reads the id set by the auth middleware and answers 401 when
// it is missing.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return 0, false
	}
	userID, ok := v.(uint)
	if !ok || userID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return 0, false
	}
	return userID, true
}

// optionalUserID returns the caller on routes that also serve anonymous users.
func optionalUserID(c *gin.Context) *uint {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return nil
	}
	userID, ok := v.(uint)
	if !ok || userID == 0 {
		return nil
	}
	return &userID
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}
