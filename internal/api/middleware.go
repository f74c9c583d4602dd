package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows requests from any origin. The backend is called from
// a separately hosted front-end page, so the surface is deliberately open.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// LoggingMiddleware provides structured request logging.
func LoggingMiddleware(logf func(format string, args ...any)) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logf("%s %s -> %d (%dms)", method, path, c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
