package handler

import (
	"net/http"
	"reflect"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status by Kind, carrying the
// stable machine-readable code so clients never have to string-match messages.
func respondError(c *gin.Context, err error) {
	envelope := &apierror.APIError{Detail: err.Error(), Code: apierror.CodeOf(err)}
	switch apierror.KindOf(err) {
	case apierror.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, envelope)
	case apierror.KindNotFound:
		c.JSON(http.StatusNotFound, envelope)
	case apierror.KindConflict, apierror.KindPolicy:
		c.JSON(http.StatusConflict, envelope)
	default:
		// Untyped errors are internal — log via gin's error list, hide details.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
