package native

import "errors"

var (
	// ErrUnsupported is returned on platforms without a code patcher.
	ErrUnsupported = errors.New("function exchange is not supported on this platform")

	// ErrAlreadyExchanged is returned when one of the functions is already
	// exchanged with a different function.
	ErrAlreadyExchanged = errors.New("function is already exchanged")

	// ErrNotExchanged is returned by Restore for a function that isn't
	// exchanged.
	ErrNotExchanged = errors.New("function is not exchanged")
)
