package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quangvu-go/pricehub/internal/repository"
	"github.com/quangvu-go/pricehub/internal/service"
)

// APIResponse is the uniform response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// respondError maps domain errors onto HTTP statuses that tell the caller
// how to remediate: fix the request, top up funds, or wait and retry.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrWalletNotFound),
		errors.Is(err, repository.ErrTradeNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, service.ErrPriceUnavailable):
		status = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, service.ErrInsufficientBalance):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, service.ErrConcurrencyExhausted):
		status = http.StatusConflict
		message = err.Error()
	}

	c.JSON(status, APIResponse{Success: false, Message: message})
}
