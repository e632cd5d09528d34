package application

import "errors"

var (
	// ErrLogoutFailed is returned when the key service answered the logout
	// request with an explicit negative result. Distinct from an adapter
	// fault: the channel worked, the service said no.
	ErrLogoutFailed = errors.New("logout failed")
	// ErrLoadAlreadyStarted is returned when the initial load is kicked off
	// more than once. The load is a one-shot cycle.
	ErrLoadAlreadyStarted = errors.New("account load already started")
)
