// Package validation is the request validation gate. It decodes JSON request
// bodies into typed request structs and reports every problem keyed by the
// JSON field name, so handlers can return them in a single 400 response.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"library_api/internal/shared/apperr"
)

// tagName is the struct tag holding the rules, the same one gin uses.
const tagName = "binding"

// ErrNoInput is returned when the body is missing, is not JSON, or is not a
// JSON object.
var ErrNoInput = apperr.New(apperr.KindValidation, "validation.decode", "No input data provided")

// mailboxPattern requires a dotted domain with an alphabetic TLD of at least
// two letters. Underscores are not valid in host names.
var mailboxPattern = regexp.MustCompile(`^[^@\s]+@[^@\s_]+\.[A-Za-z]{2,}$`)

// Errors maps a JSON field name to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Gate validates request payloads against their struct tags.
type Gate struct {
	v *validator.Validate
}

// NewGate creates a Gate with the custom rules registered.
func NewGate() *Gate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tagName)
	v.RegisterTagNameFunc(jsonName)
	// The pattern is fixed, so registration cannot fail.
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailboxPattern.MatchString(fl.Field().String())
	})
	return &Gate{v: v}
}

// BindJSON reads the request body of c and decodes it into dst.
func (g *Gate) BindJSON(c *gin.Context, dst any) error {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ErrNoInput
		}
		body = b
	}
	return g.Decode(c.GetHeader("Content-Type"), body, dst)
}

// Decode checks the content type, decodes body into the struct pointed to by
// dst and validates it. Unknown fields are ignored. It returns ErrNoInput for
// payloads that are not a JSON object and Errors for field problems.
func (g *Gate) Decode(contentType string, body []byte, dst any) error {
	if !isJSON(contentType) {
		return ErrNoInput
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ErrNoInput
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ErrNoInput
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: destination must be a pointer to a struct, got %T", dst)
	}
	sv := rv.Elem()
	st := sv.Type()

	errs := Errors{}
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		name := jsonName(sf)
		if name == "" || !sf.IsExported() {
			continue
		}
		value, ok := raw[name]
		if !ok || string(value) == "null" {
			continue
		}
		if err := json.Unmarshal(value, sv.Field(i).Addr().Interface()); err != nil {
			errs[name] = typeMessage(name, sf.Type)
		}
	}

	if err := g.v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			name := fe.Field()
			if _, seen := errs[name]; seen {
				continue
			}
			sf, _ := st.FieldByName(fe.StructField())
			errs[name] = ruleMessage(fe, sf)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DisplayName turns a JSON field name into its message form: "first_name"
// becomes "First name".
func DisplayName(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isJSON(contentType string) bool {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	return strings.EqualFold(mediaType, "application/json")
}

func jsonName(sf reflect.StructField) string {
	name := strings.Split(sf.Tag.Get("json"), ",")[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return sf.Name
	}
	return name
}

var jsonUnmarshaler = reflect.TypeFor[json.Unmarshaler]()

func typeMessage(field string, t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	display := DisplayName(field)
	if reflect.PointerTo(t).Implements(jsonUnmarshaler) {
		return display + " has an invalid format"
	}
	switch t.Kind() {
	case reflect.String:
		return display + " must be a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return display + " must be an integer"
	case reflect.Bool:
		return display + " must be a boolean"
	default:
		return display + " has an invalid type"
	}
}

func ruleMessage(fe validator.FieldError, sf reflect.StructField) string {
	display := DisplayName(fe.Field())
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return display + " is required"
	case "email", "mailbox":
		return display + " must be a valid email address"
	case "min", "max":
		if isText {
			if fe.Tag() == "min" {
				return fmt.Sprintf("%s must be at least %s characters", display, fe.Param())
			}
			return fmt.Sprintf("%s must be at most %s characters", display, fe.Param())
		}
		if lo, hi, ok := bounds(sf.Tag.Get(tagName)); ok {
			return fmt.Sprintf("%s must be between %s and %s", display, lo, hi)
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s", display, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", display, fe.Param())
	case "uuid", "uuid4":
		return display + " must be a valid identifier"
	default:
		return display + " is invalid"
	}
}

// bounds extracts the min and max parameters of a rule list such as
// "required,min=1,max=365".
func bounds(rules string) (lo, hi string, ok bool) {
	for _, rule := range strings.Split(rules, ",") {
		key, param, found := strings.Cut(rule, "=")
		if !found {
			continue
		}
		switch key {
		case "min":
			lo = param
		case "max":
			hi = param
		}
	}
	return lo, hi, lo != "" && hi != ""
}
