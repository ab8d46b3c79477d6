package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	requestsByStatus = expvar.NewMap("http_requests_by_status")
	requestsByRoute  = expvar.NewMap("http_requests_by_route")
)

// Metrics counts responses per status code and per route in expvar.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requestsByStatus.Add(strconv.Itoa(c.Writer.Status()), 1)
		if route := c.FullPath(); route != "" {
			requestsByRoute.Add(c.Request.Method+" "+route, 1)
		}
	}
}
