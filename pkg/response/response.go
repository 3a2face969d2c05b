package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the JSON envelope for API endpoints (scrape and login APIs;
// HTML routes render pages instead).
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Fail sends a 200 JSON response carrying a short human-readable failure
// string. Scrape outcomes (challenge page, missing title, duplicate) are
// operator feedback, not transport errors.
func Fail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Body{Success: false, Error: msg})
}

// BadRequest sends 400 with an error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}
