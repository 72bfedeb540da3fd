package helpers

import (
	"net/http"

	"github.com/Abdisalan-Osman/evently/internal/apperror"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, code string, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Code:    code,
		Message: customMessage,
	})
}

// RespondWithAppError maps an error from the service layer onto the HTTP
// response, carrying the taxonomy code in the body.
func RespondWithAppError(c *gin.Context, statusCode int, err error) {
	RespondWithError(c, statusCode, apperror.CodeOf(err), err.Error())
}
