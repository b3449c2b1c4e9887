package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Err writes err as a JSON body with its status code.
func Err(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code := GetCode(err)
	if code >= http.StatusInternalServerError {
		log.Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	var e *Error
	if !As(err, &e) {
		e = New(err, code, err.Error())
	}
	c.AbortWithStatusJSON(code, e)
}

// RecoveryMiddleware turns panics into 500 responses.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("recovered from panic")
				Err(c, New(fmt.Errorf("%v", r), http.StatusInternalServerError, "internal server error"))
			}
		}()
		c.Next()
	}
}

// ErrorHandlerMiddleware renders errors attached with c.Error when the
// handler did not write a response itself.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Err(c, c.Errors.Last().Err)
	}
}
