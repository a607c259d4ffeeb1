package docservice

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrFormatUnsupported is returned for a download format the backend cannot render.
	ErrFormatUnsupported = errors.New("docservice: format not supported")
	// ErrNotFound is returned for an unknown document id.
	ErrNotFound = errors.New("docservice: document not found")
	// ErrInvalidDocument is returned when the backend rejects the submitted data.
	ErrInvalidDocument = errors.New("docservice: invalid document data")
)

const (
	msgConnect        = "Nie udało się połączyć z serwerem. Sprawdź połączenie i spróbuj ponownie."
	msgCreate         = "Nie udało się zapisać zgłoszenia."
	msgGenerate       = "Nie udało się przygotować PDF."
	msgPDFOnly        = "Obsługujemy obecnie tylko pobieranie plików PDF."
	msgUnexpected     = "Serwer zwrócił nieoczekiwaną odpowiedź podczas zapisywania zgłoszenia."
	msgNotFound       = "Nie znaleziono zgłoszenia."
	msgInvalidDetails = "Nieprawidłowe dane zgłoszenia"
)

// Error is a document service failure. Error() carries the technical detail for
// logs, UserMessage() the Polish text shown to the citizen.
type Error struct {
	operation  string
	statusCode int
	message    string
	detail     string
	err        error
}

func (e *Error) Error() string {
	switch {
	case e.statusCode != 0 && e.err != nil:
		return fmt.Sprintf("%s: HTTP %d: %v", e.operation, e.statusCode, e.err)
	case e.statusCode != 0:
		return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.operation, e.err)
	default:
		return fmt.Sprintf("%s: %s", e.operation, e.message)
	}
}

func (e *Error) Unwrap() error { return e.err }

// UserMessage returns the localized message for the citizen.
func (e *Error) UserMessage() string { return e.message }

// StatusCode returns the HTTP status of the failed call, 0 when no response was received.
func (e *Error) StatusCode() int { return e.statusCode }

// Operation returns a short description of the call that failed.
func (e *Error) Operation() string { return e.operation }

// statusError builds the error for a non-2xx response, mentioning the server's
// own explanation when it gave one.
func statusError(operation, prefix string, status int, details string) *Error {
	msg := fmt.Sprintf("%s (kod %d).", strings.TrimSuffix(prefix, "."), status)
	if details != "" {
		msg = prefix + " " + details
	}
	return &Error{operation: operation, statusCode: status, message: msg, detail: details, err: sentinelFor(status)}
}

// invalidDocument reports rejected fields the way the backend's validation does.
func invalidDocument(fields []string) *Error {
	detail := msgInvalidDetails + ": " + strings.Join(fields, ", ") + "."
	return &Error{
		operation: "create document",
		message:   msgCreate + " " + detail,
		detail:    detail,
		err:       ErrInvalidDocument,
	}
}

func notFound(operation string, id int64) *Error {
	return &Error{
		operation: operation,
		message:   msgNotFound,
		detail:    msgNotFound,
		err:       fmt.Errorf("%w: id %d", ErrNotFound, id),
	}
}

// detailOf returns the explanation a server puts in an error response body.
func detailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.detail != "" {
			return e.detail
		}
		return e.message
	}
	return err.Error()
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidDocument
	case http.StatusNotImplemented, http.StatusUnsupportedMediaType:
		return ErrFormatUnsupported
	}
	return nil
}

func unsupportedFormat(operation string) *Error {
	return &Error{operation: operation, message: msgPDFOnly, detail: msgPDFOnly, err: ErrFormatUnsupported}
}

// HasStatusCode reports whether err is a service error with the given HTTP status.
func HasStatusCode(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.statusCode == code
}

// httpStatus maps a service error to the status the mock server answers with.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, ErrFormatUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
