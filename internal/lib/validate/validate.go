// Package validate собирает валидатор входных запросов с дополнительными
// правилами, которых нет в validator v9.
package validate

import (
	"time"

	"github.com/go-playground/validator"
)

// New возвращает валидатор с зарегистрированным правилом datetime:
// параметр тега задает layout даты, например `datetime=02.01.2006`.
func New() *validator.Validate {
	v := validator.New()
	// v9 паникует на неизвестном теге, поэтому правило регистрируется здесь.
	_ = v.RegisterValidation("datetime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(fl.Param(), fl.Field().String())
		return err == nil
	})
	return v
}
