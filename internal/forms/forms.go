// Package forms holds the per-entity submit controllers. Fields keep the
// masked text exactly as typed; validation runs once at submit time and
// failures come back as a single joint message, never field by field. A
// form that fails validation never reaches the network.
package forms

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dveiculos/backoffice/pkg/masks"
)

// ValidationError is a locally detected rejection; the message is shown to
// the user verbatim and the request is never sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report the user-facing field label instead of the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// missingFields runs the required-tag checks and collects the labels of
// every failing field, in struct order.
func missingFields(form any) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	var out []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			out = append(out, fe.Field())
		}
	}
	return out
}

func errCamposObrigatorios(campos []string) *ValidationError {
	return &ValidationError{Message: "Preencha os campos obrigatórios: " + strings.Join(campos, ", ")}
}

// parseDate reads the date-input format, accepting full ISO-8601 too for
// values round-tripped from the backend.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// optionalMoeda converts a masked amount to a pointer, nil when blank.
func optionalMoeda(s string) *float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v := masks.StripMoeda(s)
	return &v
}

// optionalInt converts a digit string to a pointer, nil when blank.
func optionalInt(s string) *int {
	d := masks.Digits(s)
	if d == "" {
		return nil
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return nil
	}
	return &n
}

// optionalString converts a trimmed string to a pointer, nil when blank.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
