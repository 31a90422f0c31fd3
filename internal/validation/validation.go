// Package validation binds JSON request bodies into typed request structs
// and turns validator failures into field errors.
//
// The request struct is the field allow-list: keys that do not map to a
// struct field are dropped during decoding and never reach storage.
// Constraints live in `binding` tags and are enforced by
// go-playground/validator through gin's binding engine. Field names in
// errors are the JSON names, registered once with RegisterTagNameFunc.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/library-catalog/internal/api"
)

// BodyField is reported when the body itself cannot be decoded.
const BodyField = "body"

// Messenger lets a request type supply its own message per JSON field.
type Messenger interface {
	FieldMessages() map[string]string
}

var setupOnce sync.Once

// Setup registers the JSON tag-name function on gin's validator. It is safe
// to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// BindJSON decodes the request body into req and validates it. On failure
// it writes a 400 with the field errors and returns false. An empty body is
// treated as {} so required fields are reported individually.
func BindJSON(c *gin.Context, req any) bool {
	Setup()

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			api.Invalid(c, []api.FieldError{{Field: BodyField, Message: "request body could not be read"}})
			return false
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := binding.JSON.BindBody(body, req); err != nil {
		api.Invalid(c, Translate(err, req))
		return false
	}
	return true
}

// Translate converts a binding error into field errors.
func Translate(err error, req any) []api.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := map[string]string{}
		if m, ok := req.(Messenger); ok {
			messages = m.FieldMessages()
		}

		out := make([]api.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			msg, ok := messages[fe.Field()]
			if !ok {
				msg = defaultMessage(fe)
			}
			out = append(out, api.FieldError{Field: fe.Field(), Message: msg})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = BodyField
		}
		return []api.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("`%s` must be of type %s", field, jsonTypeName(typeErr.Type)),
		}}
	}

	return []api.FieldError{{Field: BodyField, Message: "request body must be a valid JSON object"}}
}

func defaultMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("`%s` is required", field)
	case "min":
		return fmt.Sprintf("`%s` should be minimum %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("`%s` should be maximum %s characters long", field, fe.Param())
	case "email":
		return fmt.Sprintf("`%s` should be a valid email", field)
	case "gt", "gte":
		return fmt.Sprintf("`%s` should be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("`%s` is invalid", field)
	}
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
