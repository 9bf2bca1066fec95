package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// External service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	// ErrTransient marks faults worth retrying: timeouts, 429s, 5xx
	// responses. Anything not wrapping it fails the item immediately.
	ErrTransient = fmt.Errorf("transient service fault")

	// Library persistence errors
	ErrLibraryNotFound = fmt.Errorf("library file not found")
	ErrLibraryCorrupt  = fmt.Errorf("library file corrupt")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
