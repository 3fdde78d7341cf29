package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"studytrack/internal/qerrors"
)

var (
	// custom validation texts
	requiredTag  = "required"
	requiredText = "this field is required"

	datetimeTag  = "datetime"
	datetimeText = "must be a date formatted YYYY-MM-DD"

	validate   *validator.Validate
	translator ut.Translator
	initOnce   sync.Once
)

func initValidator() {
	validate = validator.New()
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomTranslation(requiredTag, requiredText)
	registerCustomTranslation(datetimeTag, datetimeText)
}

// registerCustomTranslation overrides the message for the specified validation tag.
func registerCustomTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v and returns a *qerrors.ValidationError listing every failing field.
func Struct(v interface{}) error {
	initOnce.Do(initValidator)

	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]qerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, qerrors.FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return qerrors.NewValidationError(fields...)
}
