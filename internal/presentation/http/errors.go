package httppresentation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/felipeshurrab/Harmonia/internal/observability/logctx"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	codeInternal    = "INTERNAL_ERROR"
	messageInternal = "an internal error occurred"
)

type errorResponse struct {
	ErrorCode string              `json:"error_code"`
	Message   string              `json:"message"`
	Errors    map[string][]string `json:"errors,omitempty"`
	Details   *fault.Shortfall    `json:"details,omitempty"`
}

func statusOf(kind fault.Kind) int {
	switch kind {
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindInsufficientStock, fault.KindValidation:
		return http.StatusBadRequest
	case fault.KindUnauthorized:
		return http.StatusUnauthorized
	case fault.KindForbidden:
		return http.StatusForbidden
	case fault.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeFault renders err as the JSON error body. Infrastructure details are
// logged and never returned to the caller.
func writeFault(c *gin.Context, err error) {
	f, ok := fault.As(err)
	if !ok || f.Kind == fault.KindInfrastructure {
		logctx.FromOr(c.Request.Context(), observability.NopLogger()).Error("http_internal_error",
			observability.F("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorCode: codeInternal, Message: messageInternal})
		return
	}

	body := errorResponse{ErrorCode: f.Code(), Message: f.Message}
	if len(f.Fields) > 0 {
		body.Errors = f.Fields
	}
	if f.Shortfall != nil {
		body.Details = f.Shortfall
	}
	c.JSON(statusOf(f.Kind), body)
}

// bindingFault converts a gin binding failure into a validation fault with
// per-field messages keyed by JSON name.
func bindingFault(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fault.Validation("malformed request body", map[string][]string{"body": {err.Error()}})
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe.Namespace())
		fields[name] = append(fields[name], describe(fe))
	}
	return fault.Validation("one or more validation errors occurred", fields)
}

// fieldPath drops the struct name from a validator namespace:
// placeOrderRequest.items[0].quantity -> items[0].quantity.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind().String() == "slice" {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	case "number":
		return "must contain digits only"
	case tagDocumentType:
		return "must be CPF or CNPJ"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
