package absence

import "errors"

var (
	ErrNotFound          = errors.New("absence not found")
	ErrNotAuthenticated  = errors.New("no authenticated employee")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("not allowed to manage absence")
	ErrInvalidTransition = errors.New("absence not in a state that allows this action")
	ErrNoRecipientFound  = errors.New("no notification recipient found")
)
