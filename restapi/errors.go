package restapi

import "fmt"

// APIError is a request the server answered but rejected. Message carries
// the server-provided explanation when one was given.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("server rejected request: %s (status %d)", e.Message, e.Status)
}

// ServerMessage returns the server-provided message, if any. The session
// layer uses it to show the most specific failure text available.
func (e *APIError) ServerMessage() string {
	return e.Message
}
