package middleware

import "github.com/gin-gonic/gin"

// Revalidate lets clients store the response but requires revalidation before
// reuse. The category list carries live counts.
func Revalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Next()
	}
}

// NoStore forbids caching. Quiz session state changes every second.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
