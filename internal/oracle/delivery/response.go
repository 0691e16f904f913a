package delivery

import "github.com/gin-gonic/gin"

// errorJSON writes the error envelope shared by every endpoint:
// {"success": false, "error": "..."}.
func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}
