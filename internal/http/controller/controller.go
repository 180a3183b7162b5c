package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"productflow/internal/http/response"
)

// Controller handles general HTTP requests.
type Controller struct{}

// New creates a new Controller.
func New() *Controller {
	return &Controller{}
}

// Health handles the HTTP GET request for the liveness probe.
func (con *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Health{
		Success:   true,
		Message:   response.MsgHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
