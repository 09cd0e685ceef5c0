package api

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fagaru/fagaru/backend/internal/models"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators installs the enum tags used by request bindings and
// reports field names by their JSON name. Safe to call more than once.
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		choices := map[string][]string{
			"profile_type": models.ProfileTypes,
			"language":     models.Languages,
			"symptom":      models.Symptoms,
		}
		for tag, allowed := range choices {
			if err := v.RegisterValidation(tag, oneOf(allowed)); err != nil {
				validatorsErr = err
				return
			}
		}
	})
	return validatorsErr
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}
