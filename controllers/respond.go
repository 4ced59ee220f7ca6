package controllers

import (
	stdjson "encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	gojson "github.com/goccy/go-json"

	"github.com/cppla/folio/services"
	"github.com/cppla/folio/utils"
)

// fail classifies err and writes the error envelope. Unclassified errors are logged in
// full and answered with a generic 500.
func fail(ctx *gin.Context, err error) {
	if isBindingError(err) {
		utils.Error(ctx, http.StatusBadRequest, 40000, "invalid request payload")
		return
	}
	status, known := services.StatusOf(err)
	if !known || status >= http.StatusInternalServerError {
		utils.Sugar.Errorw("request failed", "method", ctx.Request.Method, "path", ctx.FullPath(), "err", err)
		if !known {
			utils.Error(ctx, http.StatusInternalServerError, 50000, services.ErrUnexpected.Error())
			return
		}
	}
	utils.Error(ctx, status, status*100, rootMessage(err))
}

func isBindingError(err error) bool {
	var ve validator.ValidationErrors
	var stdType *stdjson.UnmarshalTypeError
	var stdSyntax *stdjson.SyntaxError
	var goType *gojson.UnmarshalTypeError
	var goSyntax *gojson.SyntaxError
	return errors.As(err, &ve) || errors.As(err, &stdType) || errors.As(err, &stdSyntax) ||
		errors.As(err, &goType) || errors.As(err, &goSyntax)
}

// rootMessage returns the text of the sentinel err wraps, hiding internal context.
func rootMessage(err error) string {
	for target := range services.ErrorMap {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

// bindJSON decodes the body, treating an empty body as a payload error.
func bindJSON(ctx *gin.Context, dst interface{}) error {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return ve
		}
		if isBindingError(err) {
			return err
		}
		return errors.Join(services.ErrParamInvalid, err)
	}
	return nil
}

// paramID parses a positive integer path parameter.
func paramID(ctx *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, services.ErrParamInvalid
	}
	return uint(id), nil
}
