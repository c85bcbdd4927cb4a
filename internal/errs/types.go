package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NetworkFailureError is returned when an upstream request cannot be
// completed or answers with a non-2xx status. Status is zero when no
// response was received.
type NetworkFailureError struct {
	ErrorMessage
	URL    string
	Status int
	Err    error
}

func (e *NetworkFailureError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when an upstream payload does not have
// the shape the caller relies on.
type MalformedResponseError struct {
	ErrorMessage
	Err error
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

type ConfigurationMissingError struct {
	ErrorMessage
	Key string
}

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type UnavailableError struct {
	ErrorMessage
}

func NewNetworkFailureError(url string, status int, err error) *NetworkFailureError {
	msg := fmt.Sprintf("request to %s failed", url)
	if status != 0 {
		msg = fmt.Sprintf("request to %s returned status %d", url, status)
	} else if err != nil {
		msg = fmt.Sprintf("request to %s failed: %s", url, err)
	}
	return &NetworkFailureError{
		ErrorMessage: ErrorMessage{Message: msg},
		URL:          url,
		Status:       status,
		Err:          err,
	}
}

func NewMalformedResponseError(message string, err error) *MalformedResponseError {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return &MalformedResponseError{
		ErrorMessage: ErrorMessage{Message: message},
		Err:          err,
	}
}

func NewConfigurationMissingError(key string) *ConfigurationMissingError {
	return &ConfigurationMissingError{
		ErrorMessage: ErrorMessage{Message: "missing configuration: " + key},
		Key:          key,
	}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnavailableError(message string) *UnavailableError {
	return &UnavailableError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}
