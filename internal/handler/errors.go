package handler

import (
	"errors"
	"net/http"

	"fantasy-trends/internal/trends"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP statuses. A blank player id from the
// request is the client's fault; one reported by the source is an upstream fault.
func writeError(c *gin.Context, err error) {
	var invalid *trends.InvalidCriteriaError
	var fetch *trends.DataFetchError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.Is(err, trends.ErrNoSnapshot):
		status = http.StatusServiceUnavailable
	case errors.As(err, &fetch):
		status = http.StatusBadGateway
	case errors.Is(err, trends.ErrEmptyPlayerID):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
