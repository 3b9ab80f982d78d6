package handler

import (
	"errors"

	"main/model"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto the response
// envelope. Anything outside the taxonomy is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, model.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, model.ErrStateConflict):
		utils.Conflict(c, err.Error())
	default:
		utils.InternalError(c, err.Error())
	}
}
