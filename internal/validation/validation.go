package validation

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// JSON tag is the field name reported back to clients
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister("asset_type", func(fl validator.FieldLevel) bool {
		switch model.AssetType(fl.Field().String()) {
		case model.AssetTypeReel, model.AssetTypeCarousel, model.AssetTypePost:
			return true
		}
		return false
	})
	mustRegister("asset_status", func(fl validator.FieldLevel) bool {
		return model.AssetStatus(fl.Field().String()).Valid()
	})
	mustRegister("publish_status", func(fl validator.FieldLevel) bool {
		return model.PublishStatus(fl.Field().String()).Valid()
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func ErrorsToJson(validationErrs error) (string, error) {
	errsMap := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if ve, ok := validationErrs.(validator.ValidationErrors); ok {
		fieldErrs = ve
	}
	for _, fieldErr := range fieldErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
