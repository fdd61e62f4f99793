package handler

import (
	"errors"
	"net/http"

	"stockmaster/internal/middleware"
	"stockmaster/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindFormAndValidate binds form fields and runs go-playground/validator tags.
// Returns false and writes a 400 if validation fails; the caller should return
// immediately without writing another response.
func bindFormAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		c.String(http.StatusBadRequest, "Formulario invalido")
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			c.String(http.StatusBadRequest, "Campo invalido: "+verrs[0].Field())
			return false
		}
		c.String(http.StatusBadRequest, "Formulario invalido")
		return false
	}
	return true
}

// storeMessage returns the client-safe text for err: the prefix plus the
// StoreError description, never the underlying cause.
func storeMessage(prefix string, err error) string {
	var se *repository.StoreError
	if errors.As(err, &se) {
		return prefix + ": " + se.Message()
	}
	return prefix
}

// textError hands a store failure of an HTML route to middleware.ErrorHandler,
// which logs it and answers a plain-text 500.
func textError(c *gin.Context, prefix string, err error) {
	_ = c.Error(err).SetMeta(middleware.ErrorMeta{
		Status:  http.StatusInternalServerError,
		Message: storeMessage(prefix, err),
		Text:    true,
	})
	c.Abort()
}

// jsonError does the same for JSON routes, answered with the apierror envelope.
func jsonError(c *gin.Context, status int, prefix string, err error) {
	_ = c.Error(err).SetMeta(middleware.ErrorMeta{
		Status:  status,
		Message: storeMessage(prefix, err),
	})
	c.Abort()
}
