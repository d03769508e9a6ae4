// Package middleware provides shared gin middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moviehub/review/pkg/logger"
)

// CORS allows cross-origin access to the JSON API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Logger logs one line per request at a level matching the response status.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		switch {
		case statusCode >= 500:
			log.Errorf("%s %s %d %v %s", clientIP, method, statusCode, latency, path)
		case statusCode >= 400:
			log.Warnf("%s %s %d %v %s", clientIP, method, statusCode, latency, path)
		default:
			log.Infof("%s %s %d %v %s", clientIP, method, statusCode, latency, path)
		}
	}
}
