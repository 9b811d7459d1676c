package httppresentation

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	domain "github.com/felipeshurrab/Harmonia/internal/domain/order"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const tagDocumentType = "document_type"

var registerOnce sync.Once

// registerValidators teaches gin's validator the JSON field names and the
// custom tags used by the request types.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation(tagDocumentType, func(fl validator.FieldLevel) bool {
			_, err := domain.ParseDocumentType(fl.Field().String())
			return err == nil
		})
	})
}

// documentLengthError checks the customer document against the digit count
// required by its type. The type itself is already validated.
func documentLengthError(docType, document string) string {
	t, err := domain.ParseDocumentType(docType)
	if err != nil {
		return ""
	}
	if len(document) != t.Digits() {
		return string(t) + " must contain " + strconv.Itoa(t.Digits()) + " digits"
	}
	return ""
}
