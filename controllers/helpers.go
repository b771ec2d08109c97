package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// parseID membaca path param sebagai uint; gagal -> validation error.
func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NewError(utils.CodeValidation, "invalid "+name)
	}
	return uint(id), nil
}

func parseOptionalUintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, utils.NewError(utils.CodeValidation, "invalid "+name)
	}
	return uint(v), nil
}

// bindJSON is ShouldBindJSON with the error mapped to a validation error.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return utils.NewError(utils.CodeValidation, "invalid request body: "+err.Error())
	}
	return nil
}

// bindStrict decodes the body into a typed update struct and rejects unknown
// fields, so a typo never silently becomes a no-op.
func bindStrict(c *gin.Context, dst interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return utils.NewError(utils.CodeValidation, "request body is required")
		}
		return utils.NewError(utils.CodeValidation, "invalid request body: "+err.Error())
	}
	return nil
}

// bindOptional is bindJSON for endpoints whose body may be empty.
func bindOptional(c *gin.Context, dst interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return utils.NewError(utils.CodeValidation, "invalid request body: "+err.Error())
	}
	return nil
}
