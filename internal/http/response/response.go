// Package response owns the JSON shapes handlers write. Errors always use
// {"error":{"message","code","request_id"}}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorialhub-backend/internal/data/repos/repoerr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var errInternal = errors.New("internal server error")

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	body := APIError{Message: msg, Code: code}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		body.RequestID = td.RequestID
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

// RespondServiceError writes err with the status and code an *apierr.Error
// carries. Unique-key conflicts from the store map to 409. Anything else
// becomes a 500 with fallbackCode, and its message is not echoed to the client.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	ae, ok := apierr.As(err)
	if !ok && errors.Is(err, repoerr.ErrConflict) {
		ae, ok = apierr.Conflict("conflict", repoerr.ErrConflict), true
	}
	if !ok {
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, fallbackCode, errInternal)
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := ae.Code
	if code == "" {
		code = fallbackCode
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	RespondError(c, status, code, ae)
}

func RespondOK(c *gin.Context, payload any) { c.JSON(http.StatusOK, payload) }

func RespondCreated(c *gin.Context, payload any) { c.JSON(http.StatusCreated, payload) }

// RespondAccepted answers work that continues in the background.
func RespondAccepted(c *gin.Context, payload any) { c.JSON(http.StatusAccepted, payload) }

func RespondNoContent(c *gin.Context) { c.Status(http.StatusNoContent) }
