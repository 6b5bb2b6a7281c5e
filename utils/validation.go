package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/princinho/callboard/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var setupOnce sync.Once

// SetupBinding configures gin's shared validator: field names come from the
// json/form/uri tags, unknown JSON fields are rejected and the "objectid" and
// "category" rules are available to binding tags.
func SetupBinding() {
	setupOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("unexpected gin validator engine")
		}
		v.RegisterTagNameFunc(tagName)
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return models.Category(fl.Field().String()).Valid()
		})
	})
}

func IsObjectID(s string) bool {
	_, err := bson.ObjectIDFromHex(s)
	return err == nil
}

func tagName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

// ValidationMessage turns a binding error into the message sent to clients,
// e.g. `"password" is required`.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldErrorMessage(verrs[0])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return fmt.Sprintf("%q must be %s", field, kindName(typeErr.Type.Kind()))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Invalid JSON body"
	}
	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}

	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		return fmt.Sprintf("%s is not allowed", rest)
	}
	return msg
}

// NotAllowedMessage is reported for unexpected form fields.
func NotAllowedMessage(field string) string {
	return fmt.Sprintf("%q is not allowed", field)
}

// NotANumberMessage is reported when a numeric field cannot be parsed.
func NotANumberMessage(field string) string {
	return fmt.Sprintf("%q must be a number", field)
}

func fieldErrorMessage(fe validator.FieldError) string {
	name := fe.Field()
	numeric := isNumericKind(fe.Kind())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", name)
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("%q must be greater than or equal to %s", name, fe.Param())
		}
		return fmt.Sprintf("%q length must be at least %s characters long", name, fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("%q must be less than or equal to %s", name, fe.Param())
		}
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", name, strings.Join(strings.Fields(fe.Param()), ", "))
	case "category":
		names := make([]string, 0, len(models.Categories))
		for _, c := range models.Categories {
			names = append(names, string(c))
		}
		return fmt.Sprintf("%q must be one of [%s]", name, strings.Join(names, ", "))
	case "objectid":
		return fmt.Sprintf("Invalid '%s'. Must be a MongoDB ObjectId", name)
	case "email":
		return fmt.Sprintf("%q must be a valid email", name)
	}
	return fmt.Sprintf("%q is invalid", name)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func kindName(k reflect.Kind) string {
	switch {
	case k == reflect.String:
		return "a string"
	case k == reflect.Bool:
		return "a boolean"
	case isNumericKind(k):
		return "a number"
	case k == reflect.Slice || k == reflect.Array:
		return "an array"
	}
	return "an object"
}
