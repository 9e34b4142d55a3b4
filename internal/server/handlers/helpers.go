package handlers

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

var validate = validator.New()

func init() {
	// decimal.Decimal validates as a float so numeric tags like gt=0 apply.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			return v.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs validator tags. It writes the
// error response and returns false when the request is rejected.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error(), "phase": models.PhaseValidation})
		return false
	}
	return runValidation(c, req)
}

// bindQueryAndValidate is bindAndValidate for query string parameters.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query: " + err.Error(), "phase": models.PhaseValidation})
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "request validation failed",
		"phase":  models.PhaseValidation,
		"fields": fields,
	})
	return false
}

// statusFor maps the ledger error taxonomy to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrPersistence):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	phase := models.PhaseOf(err)

	if status >= http.StatusInternalServerError {
		logger.Error("ledger request failed", zap.String("path", c.FullPath()), zap.String("phase", string(phase)), zap.Error(err))
	} else {
		logger.Warn("ledger request rejected", zap.String("path", c.FullPath()), zap.String("phase", string(phase)), zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error(), "phase": phase})
}
