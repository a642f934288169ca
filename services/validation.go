package services

import (
	"fmt"
	"imahima/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	return nil
}

func validateMemberID(id string) error {
	if err := validate.Var(id, "required,max=128,printascii,excludes=:"); err != nil {
		return fmt.Errorf("%w: %q", errors.ErrInvalidMemberID, id)
	}
	return nil
}
