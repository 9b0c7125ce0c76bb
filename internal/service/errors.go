package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a client-facing error. Kind is one of the common errors above and
// decides the HTTP status; Message is shown to the user as-is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Invalid builds an ErrInvalidInput with a user-facing message
func Invalid(message string) *Error {
	return newError(ErrInvalidInput, message)
}

// Domain errors
var (
	ErrClientNotFound  = newError(ErrNotFound, "Clientul nu a fost găsit!")
	ErrVehicleNotFound = newError(ErrNotFound, "Vehicle not found")
	ErrOfferNotFound   = newError(ErrNotFound, "Oferta nu a fost găsită!")
	ErrOrderNotFound   = newError(ErrNotFound, "Comanda nu a fost găsită!")
	ErrLineNotFound    = newError(ErrNotFound, "Produsul comenzii nu a fost găsit!")

	ErrMissingFields  = newError(ErrInvalidInput, "Toate câmpurile sunt obligatorii!")
	ErrEmptyCategory  = newError(ErrInvalidInput, "Nu există produse pentru această categorie!")
	ErrInvalidStatus  = newError(ErrInvalidInput, "Status invalid")
	ErrInvalidAmount  = newError(ErrInvalidInput, "Suma trebuie să fie pozitivă")
	ErrAmountTooLarge = newError(ErrInvalidInput, "Suma depășește limita permisă")

	ErrDuplicateOfferNumber  = newError(ErrConflict, "Numărul ofertei există deja!")
	ErrDuplicateOrderNumber  = newError(ErrConflict, "Numărul comenzii există deja!")
	ErrReturnExceedsEligible = newError(ErrConflict, "Cantitatea returnată depășește cantitatea eligibilă")
	ErrPaymentDecrease       = newError(ErrConflict, "Suma plătită nu poate fi micșorată; plățile nu se pot șterge")

	ErrInvalidCredentials = newError(ErrUnauthorized, "Autentificare eșuată!")
)
