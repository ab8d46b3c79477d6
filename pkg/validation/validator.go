package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var dnsLabelRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// Init configures the global validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// New returns a standalone validator with the same configuration as Init.
func New() *validator.Validate {
	v := validator.New()
	configure(v)
	return v
}

func configure(v *validator.Validate) {
	// Report JSON names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("dnslabel", func(fl validator.FieldLevel) bool {
		return IsDNSLabel(fl.Field().String())
	})
	_ = v.RegisterValidation("repourl", func(fl validator.FieldLevel) bool {
		return IsRepoURL(fl.Field().String())
	})
	v.RegisterAlias("recordids", "required,min=1,dive,required,max=64")
}

// IsDNSLabel reports whether s is a single DNS label (RFC 1123).
func IsDNSLabel(s string) bool {
	return dnsLabelRe.MatchString(s)
}

// IsRepoURL accepts an empty string or an absolute http(s) URL.
func IsRepoURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fieldName(fe)] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// fieldName keeps the slice index for dive errors, e.g. "domains[0]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "dnslabel":
		return "must be a valid DNS label (letters, digits and hyphens, 1-63 characters, no leading or trailing hyphen)"
	case "repourl":
		return "must be an http(s) URL"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email"
	case "min":
		if isCollectionKind(fe.Kind()) {
			return "must contain at least " + param + " item(s)"
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isCollectionKind(fe.Kind()) {
			return "must contain at most " + param + " item(s)"
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.ActualTag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.ActualTag())
	}
}

func isCollectionKind(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
