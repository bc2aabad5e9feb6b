package location

import "fmt"

// Platform geolocation error codes (standard values).
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// PlatformError mirrors the error object delivered by the platform
// geolocation API. The platform occasionally delivers empty or malformed
// errors; Classify absorbs those instead of letting them propagate.
type PlatformError struct {
	Code    int
	Message string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("geolocation error %d: %s", e.Code, e.Message)
}

// ErrorClass is the location error taxonomy surfaced to callers.
type ErrorClass string

const (
	ClassPermissionDenied    ErrorClass = "permission_denied"
	ClassPositionUnavailable ErrorClass = "position_unavailable"
	ClassTimeout             ErrorClass = "timeout"
	ClassUnknown             ErrorClass = "unknown"
)

// ErrorDescriptor is a classified acquisition failure with its fixed
// user-facing message.
type ErrorDescriptor struct {
	Class       ErrorClass
	UserMessage string
	Cause       error
}

func (e *ErrorDescriptor) Error() string {
	return fmt.Sprintf("location %s", e.Class)
}

func (e *ErrorDescriptor) Unwrap() error { return e.Cause }

var userMessages = map[ErrorClass]string{
	ClassPermissionDenied:    "Acceso a la ubicación denegado. Por favor, permite el acceso a la ubicación en la configuración del navegador y recarga la página.",
	ClassPositionUnavailable: "La información de ubicación no está disponible. Verifica que tu dispositivo tenga GPS activado y una conexión a internet.",
	ClassTimeout:             "La ubicación está tardando más de lo esperado. Intentando con configuración alternativa... Si persiste, verifica tu conexión GPS o intenta manualmente.",
	ClassUnknown:             "Error desconocido al obtener la ubicación. Por favor, verifica tu conexión a internet y los permisos de ubicación.",
}

// Classify maps a platform error into the taxonomy. Nil, empty, or malformed
// errors classify as Unknown; this function never panics on bad input.
func Classify(err error) *ErrorDescriptor {
	desc := &ErrorDescriptor{Class: ClassUnknown, Cause: err}

	if pe, ok := err.(*PlatformError); ok && pe != nil {
		switch pe.Code {
		case CodePermissionDenied:
			desc.Class = ClassPermissionDenied
		case CodePositionUnavailable:
			desc.Class = ClassPositionUnavailable
		case CodeTimeout:
			desc.Class = ClassTimeout
		}
	}

	desc.UserMessage = userMessages[desc.Class]
	return desc
}
