package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP lets loopback and private-range clients bypass RateLimit.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := ipFromCtx(c)
		parsed := net.ParseIP(ip)
		if parsed == nil {
			return false
		}
		// 10.0.0.0/8, 172.16/12, 192.168/16, loopback
		private := parsed.IsLoopback() ||
			parsed.IsPrivate()
		return private
	}
}

// AllowPaths bypasses the limit for exact request paths such as /healthz.
func AllowPaths(paths ...string) AllowFunc {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c *gin.Context) bool {
		_, ok := set[c.Request.URL.Path]
		return ok
	}
}

// AnyOf bypasses when any of fns does.
func AnyOf(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, f := range fns {
			if f != nil && f(c) {
				return true
			}
		}
		return false
	}
}
