package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/memberhub/memberhub/internal/shared/errors"
)

// ParseUintParam reads a positive integer path parameter.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.NewValidationError("invalid "+name, raw)
	}
	return uint(n), nil
}
