package utils

import "github.com/gin-gonic/gin"

// JSONError writes the error envelope {"error": {"code", "message", "details"}} and aborts the chain.
func JSONError(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{"code": code, "message": message}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func JSONMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "success", "message": message})
}
