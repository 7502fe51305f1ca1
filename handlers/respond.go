package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

const (
	msgStorageUnavailable = "Storage temporarily unavailable"
	msgInvalidBody        = "invalid request body"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: data})
}

func okMessage(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: data, Message: &msg})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, models.APIResponse{Success: false, Error: &msg})
}

// respondError maps an error kind to its status code. notFound is the message
// shown for apperr.ErrNotFound.
func respondError(c *gin.Context, err error, notFound string) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		fail(c, http.StatusBadRequest, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, apperr.ErrStorage):
		fail(c, http.StatusServiceUnavailable, msgStorageUnavailable)
	default:
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

// bindJSON decodes the body into dst and runs validate. It writes the 400
// response itself and returns false on failure.
func bindJSON(c *gin.Context, dst any, validate func() error) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		fail(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	if validate == nil {
		return true
	}
	if err := validate(); err != nil {
		respondError(c, err, "")
		return false
	}
	return true
}
