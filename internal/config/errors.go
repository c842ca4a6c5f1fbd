package config

import "errors"

// ErrParse is returned when the configuration document is not valid JSON or
// does not decode into the expected shape.
var ErrParse = errors.New("config: parse error")

// ErrInvalid is returned when a configuration document parses but fails
// validation.
var ErrInvalid = errors.New("config: invalid configuration")
