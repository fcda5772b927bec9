package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"quotation_service/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const genericFailureMessage = "Something went wrong on the server"

// ErrorHandler is the single place that renders failure bodies. Handlers
// attach an error with c.Error and abort; the last one wins.
//
// Without an AppError the status the handler already set is kept when it is
// a failure status, otherwise 500.
func ErrorHandler(logger logrus.FieldLogger, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *pkg.AppError
		if !errors.As(err, &appErr) {
			status := c.Writer.Status()
			if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
			appErr = pkg.NewDomainError("INTERNAL_ERROR", genericFailureMessage, err, status)
		}

		entry := logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": appErr.HTTPStatus,
			"code":   appErr.Code,
		})
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			entry.WithField("stack", appErr.Stack()).Error(appErr.Error())
		} else {
			entry.Debug(appErr.Error())
		}

		if c.Writer.Written() {
			return
		}
		render(c, appErr, dev)
	}
}

// Recovery renders panics in the failure shape.
func Recovery(logger logrus.FieldLogger, dev bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		appErr := pkg.NewDomainError("INTERNAL_ERROR", genericFailureMessage, fmt.Errorf("panic: %v", recovered), http.StatusInternalServerError)
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"stack":  appErr.Stack(),
		}).Error("recovered from panic")
		render(c, appErr, dev)
		c.Abort()
	})
}

// NoRoute reports unknown paths through the error boundary.
func NoRoute(c *gin.Context) {
	abortWith(c, pkg.NewDomainErrorSimple("NOT_FOUND", "Not Found - "+c.Request.URL.Path, http.StatusNotFound))
}

func render(c *gin.Context, appErr *pkg.AppError, dev bool) {
	if dev {
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPErrorWithStack())
		return
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
