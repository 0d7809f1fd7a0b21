package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("enTranslations.RegisterDefaultTranslations() > %w", err)
	}

	// Report fields under their config-file names ("dictionary.snapshot_path"),
	// not the Go struct names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("snapshot", isReadableSnapshot); err != nil {
		return nil, nil, fmt.Errorf("validate.RegisterValidation() > %w", err)
	}
	if err := validate.RegisterTranslation("snapshot", trans, func(ut ut.Translator) error {
		return ut.Add("snapshot", "{0} must point to an existing, readable dictionary snapshot", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("snapshot", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("validate.RegisterTranslation() > %w", err)
	}

	return validate, trans, nil
}

// isReadableSnapshot checks that the snapshot path names a regular file the
// process can open. Whether the contents parse is dictionary.Load's job.
func isReadableSnapshot(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
