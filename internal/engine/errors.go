package engine

import (
	"errors"
	"strings"
)

var (
	ErrClosed            = errors.New("engine closed")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownStep       = errors.New("unknown step")
	ErrSameStep          = errors.New("already on this step")
	ErrStepLocked        = errors.New("step not reached yet")
	ErrStepInvalid       = errors.New("current step has validation errors")
	ErrWitnessIndex      = errors.New("witness index out of range")
	ErrUnknownAttachment = errors.New("unknown attachment")
	ErrUnknownCategory   = errors.New("unknown attachment category")
	ErrDraftInvalid      = errors.New("draft has validation errors")
	ErrNoDocument        = errors.New("no document has been prepared")
	ErrDownloadBusy      = errors.New("a download is already in progress")
	ErrSuperseded        = errors.New("submission superseded by a newer request")
)

// User-facing messages of the submission and download flows.
const (
	MsgSubmitFailed     = "Nie udało się przygotować formularza. Spróbuj ponownie."
	MsgDraftInvalid     = "Formularz zawiera błędy. Popraw zaznaczone pola i spróbuj ponownie."
	MsgDownloadFailed   = "Nie udało się pobrać pliku. Spróbuj ponownie."
	MsgNoDocument       = "Najpierw przygotuj formularz, a potem spróbuj pobrania ponownie."
	MsgMedicalDocuments = "Dołącz przynajmniej jeden dokument medyczny."
)

// MedicalDocumentsKey is the error key of the medical document requirement.
const MedicalDocumentsKey = "accident.medicalDocuments"

// userMessager is implemented by service errors that carry their own localized text.
type userMessager interface {
	UserMessage() string
}

func userMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}

// ErrorMap holds validation messages keyed by field name or witnesses.<i>.<field>.
type ErrorMap map[string]string

func (m ErrorMap) apply(key string, err error) {
	if err == nil {
		delete(m, key)
		return
	}
	m[key] = err.Error()
}

func (m ErrorMap) dropPrefix(prefix string) {
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			delete(m, k)
		}
	}
}

func (m ErrorMap) clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
