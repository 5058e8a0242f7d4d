package chat

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingField = errors.New("username and text are required")
	ErrTooLong      = errors.New("username or text too long")
)

// limits are counted in characters, validator's max does the same for strings
type createRequest struct {
	Username string `validate:"required,max=50"`
	Text     string `validate:"required,max=500"`
}

var validate = validator.New()

// Validate checks already trimmed fields. A missing field is reported before
// any length violation, whichever field it concerns.
func Validate(username, text string) error {
	err := validate.Struct(createRequest{Username: username, Text: text})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return ErrMissingField
		}
	}
	return ErrTooLong
}
