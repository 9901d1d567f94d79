// Package validator wires go-playground/validator into Echo so handlers can
// call c.Validate on bound request structs.
package validator

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Echo adapts a validator.Validate instance to echo.Validator.
type Echo struct {
	v *validator.Validate
}

// New returns an Echo validator with struct tag validation enabled.
func New() *Echo {
	return &Echo{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks the struct tags of i and converts failures into a 400 so
// Echo's error handler renders them directly.
func (e *Echo) Validate(i interface{}) error {
	if err := e.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
