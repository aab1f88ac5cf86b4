package transcriber

import (
	"errors"
	"fmt"
)

// ErrEmptyAudio is returned when there is nothing to transcribe.
var ErrEmptyAudio = errors.New("no audio to transcribe")

// StatusError is a non-2xx response from a transcription service.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
