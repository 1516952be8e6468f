package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/patientng/patient-api/internal/apperr"
)

// ErrorEnvelope renders the last error a handler recorded as {code, message}.
func ErrorEnvelope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		ae := apperr.From(err)
		if ae.Code >= http.StatusInternalServerError {
			glog.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(ae.Code, ae)
	}
}
