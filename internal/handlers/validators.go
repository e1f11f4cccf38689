package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the ledger's custom tags to gin's validator engine.
// It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
			return domain.ValidAccountCode(fl.Field().String())
		})
	})
	return err
}
