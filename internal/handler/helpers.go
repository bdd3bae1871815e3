package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/middleware"
	"github.com/xxxsen/tutorhub/internal/pkg/errcode"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func getUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserIDKey)
}

// bindJSON decodes the body into req and writes a 422 with per-field rule
// failures when the payload is rejected.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, item := range verrs {
				fields[item.Field()] = item.Tag()
			}
			response.Validation(c, http.StatusUnprocessableEntity, errcode.ErrValidation, fields)
			return false
		}
		response.Validation(c, http.StatusUnprocessableEntity, errcode.ErrValidation, map[string]string{"body": "invalid json"})
		return false
	}
	return true
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	msg := appErr.Message(err)
	withDefault := func(fallback string) string {
		if msg == "" {
			return fallback
		}
		return msg
	}
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, withDefault("unauthorized"))
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, errcode.ErrForbidden, withDefault("forbidden"))
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, withDefault("not found"))
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, withDefault("invalid request"))
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, http.StatusBadRequest, errcode.ErrConflict, withDefault("conflict"))
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, withDefault("too many requests"))
	default:
		logger.Error("request failed")
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
		return
	}
	logger.Debug("request rejected")
}
