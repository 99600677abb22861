package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports which optional backends the process started with.
type Health struct {
	Database  bool
	Cache     bool
	Analytics bool
}

func (h Health) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"database":  h.Database,
		"cache":     h.Cache,
		"analytics": h.Analytics,
	})
}
