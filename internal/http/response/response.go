package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
)

const internalServerError = "Internal server error"

// ErrorBody is the JSON error shape every route returns.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondErr writes an apierr.Error with its status; any other error is a 500
// whose detail stays out of the body.
func RespondErr(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		msg := internalServerError
		if ae.Err != nil {
			msg = ae.Err.Error()
		}
		c.JSON(status, ErrorBody{Error: msg, Code: ae.Code})
		return
	}
	if err == nil {
		err = errors.New("unknown error")
	}
	_ = c.Error(err)
	RespondInternal(c)
}

func RespondInternal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: internalServerError})
}

func RespondBadRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg, Code: code})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
