package cli

import "errors"

var (
	errFlagRequiresArg  = errors.New("flag requires an argument")
	errUnknownFlag      = errors.New("unknown flag")
	errAuthFailed       = errors.New("authentication failed")
	errUserRequired     = errors.New("--user is required")
	errPasswordRequired = errors.New("--password is required")
	errIDRequired       = errors.New("band id is required")
	errInvalidID        = errors.New("invalid band id")
	errNameRequired     = errors.New("--name is required")
	errInvalidGenre     = errors.New("invalid genre")
	errInvalidPosition  = errors.New("position must be a positive integer")
)
