package places

import "fmt"

// Provider status values as returned by the places/geocoding/directions APIs.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// ProviderError is a classified provider failure carrying the message shown
// to the user. Each status class maps to a distinct, actionable message.
type ProviderError struct {
	Status      string
	UserMessage string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("places provider: %s", e.Status)
}

// Is matches any ProviderError with the same status, so callers can use
// errors.Is against the sentinels below.
func (e *ProviderError) Is(target error) bool {
	pe, ok := target.(*ProviderError)
	return ok && pe.Status == e.Status
}

var (
	ErrZeroResults = &ProviderError{
		Status:      StatusZeroResults,
		UserMessage: "No se encontraron resultados. Intenta ser más específico con la dirección.",
	}
	ErrQuotaExceeded = &ProviderError{
		Status:      StatusOverQueryLimit,
		UserMessage: "Se excedió el límite de consultas. Por favor, intenta de nuevo en unos momentos.",
	}
	ErrRequestDenied = &ProviderError{
		Status:      StatusRequestDenied,
		UserMessage: "La solicitud fue rechazada por el proveedor de mapas. Verifica la configuración de la aplicación.",
	}
	ErrInvalidRequest = &ProviderError{
		Status:      StatusInvalidRequest,
		UserMessage: "La solicitud no es válida. Revisa los datos ingresados.",
	}
	ErrUnknown = &ProviderError{
		Status:      StatusUnknownError,
		UserMessage: "Ocurrió un error desconocido al consultar el proveedor de mapas. Intenta de nuevo.",
	}
)

// statusError converts a non-OK provider status into its classified error.
// Statuses outside the documented enumeration fall back to ErrUnknown.
func statusError(status string) *ProviderError {
	switch status {
	case StatusZeroResults:
		return ErrZeroResults
	case StatusOverQueryLimit:
		return ErrQuotaExceeded
	case StatusRequestDenied:
		return ErrRequestDenied
	case StatusInvalidRequest:
		return ErrInvalidRequest
	default:
		return ErrUnknown
	}
}
