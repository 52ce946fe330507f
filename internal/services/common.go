package services

import "errors"

// ErrValidation is the shared sentinel for invalid input that passed binding
// but fails a business rule. Services wrap it with a descriptive message.
var ErrValidation = errors.New("validation error")
