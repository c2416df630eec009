package handlers

import (
	"github.com/gin-gonic/gin"
)

// Error helper: every handler failure goes out as {"error": msg} with
// the right status, which is all the clients ever look at.
func abortError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// postsCachePrefix keys the cached list responses; any write to posts,
// replies or reactions purges the whole prefix.
const postsCachePrefix = "posts:list:"
