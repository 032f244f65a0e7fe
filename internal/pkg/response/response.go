package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Applied reports the outcome of a state transition. A transition that did not
// apply because the record was not in the expected state is a 409 carrying
// {"applied": false}.
func Applied(c *gin.Context, applied bool, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["applied"] = applied
	if applied {
		Success(c, http.StatusOK, data)
		return
	}
	c.JSON(http.StatusConflict, gin.H{
		"success": false,
		"data":    data,
		"error": gin.H{
			"code":    "NOT_APPLIED",
			"message": "booking is not in a state that allows this action",
		},
	})
}

func ValidationFailed(c *gin.Context, details map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "FORBIDDEN", message)
}

func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}
