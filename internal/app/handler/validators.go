package handler

import (
	"sync"

	"orderledger/internal/app/ds"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var validatorsOnce sync.Once

// registerValidators adds the custom binding tags used by dto requests.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logrus.Warn("gin validator engine is not go-playground, custom tags disabled")
			return
		}
		err := v.RegisterValidation("pricingmode", func(fl validator.FieldLevel) bool {
			_, err := ds.ParsePricingMode(fl.Field().String())
			return err == nil
		})
		if err != nil {
			logrus.Errorf("register pricingmode validator: %v", err)
		}
	})
}
