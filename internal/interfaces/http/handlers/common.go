// Package handlers contains the gin HTTP handlers exposing the matching and
// valuation engine.
package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// requestIDKey is the gin context key set by the RequestID middleware.
const requestIDKey = "request_id"

func requestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.NewString()
}

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, common.APIResponse[interface{}]{
		Success:   true,
		Data:      data,
		RequestID: requestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps an error to its HTTP status and writes the standard
// error envelope.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	detail := &common.ErrorDetail{
		Code:    code.String(),
		Message: "internal error",
	}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		detail.Message = ae.Message
	}
	c.AbortWithStatusJSON(errors.HTTPStatus(code), common.APIResponse[interface{}]{
		Success:   false,
		Error:     detail,
		RequestID: requestID(c),
		Timestamp: time.Now().UTC(),
	})
}
