package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/apperr"
	"github.com/lshigami/Quokka/internal/dto"
)

// RespondError maps a service error onto the JSON error envelope. Typed
// failures carry their category and offending ids; anything else is a 500.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	body := dto.ErrorResponse{Error: err.Error(), Kind: kind.String(), IDs: apperr.OffendingIDs(err)}

	switch kind {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, body)
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, body)
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, body)
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, body)
	case apperr.KindStorage:
		c.JSON(http.StatusBadGateway, body)
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

// ParseIDParam reads a positive numeric path parameter. The bool reports
// success; on failure a 400 has already been written.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
