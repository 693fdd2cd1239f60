package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/credential-service/internal/domain"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func setup() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	// bcrypt only reads the first 72 bytes; multi-byte runes reach that sooner than max=72.
	_ = validate.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})
	_ = validate.RegisterTranslation("bcryptmax", trans,
		func(ut ut.Translator) error {
			return ut.Add("bcryptmax", "{0} must be at most 72 bytes long", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("bcryptmax", fe.Field())
			return msg
		},
	)
}

const bcryptMaxBytes = 72

// Validate checks v's `validate` tags and returns a validation_failed error
// whose meta maps each offending JSON field to an English message.
func Validate(v any) error {
	once.Do(setup)

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInternal(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = fe.Translate(trans)
	}
	return domain.ErrValidation(fields)
}
