package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/logging"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondError renders the error page for browsers and JSON for API clients.
func respondError(c *gin.Context, status int, message string) {
	if wantsJSON(c) {
		c.JSON(status, ErrorResponse{Error: message})
		return
	}
	c.HTML(status, "error", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, op string) {
	logging.FromContext(c.Request.Context()).Error("internal error", "op", op, "error", err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// redirectHome sends the browser back to the table after a form post.
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// --- Parameter Parsing ---

// parseIDParam extracts an integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (int, bool) {
	id, err := strconv.Atoi(c.Param(paramName))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
