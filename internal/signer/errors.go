package signer

import "fmt"

// RemoteSigningError is returned when the signing endpoint answers with a
// non-success HTTP status.
type RemoteSigningError struct {
	StatusCode int
	Status     string // status text, e.g. "Forbidden"
}

func (e *RemoteSigningError) Error() string {
	return fmt.Sprintf("signing endpoint returned %d: %s", e.StatusCode, e.Status)
}

// NetworkError is returned when the request never produced a response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("signing request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
