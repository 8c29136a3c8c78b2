package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes a success envelope with the given payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created writes a success envelope with a 201 status.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Fail writes an error envelope with the given status code and message.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Success: false,
		Error:   message,
	})
}
