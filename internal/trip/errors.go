package trip

import "errors"

// Kind is a stable failure-kind key. Presentation text for a kind comes
// from a Catalog, never from the planning code itself.
type Kind string

const (
	// KindForecastFetch means the provider was unreachable or returned an
	// unusable response for some location.
	KindForecastFetch Kind = "forecast-fetch"
	// KindNoTripFound means the search exhausted every candidate
	// combination without completing an assignment.
	KindNoTripFound Kind = "no-trip-found"
)

// Catalog resolves a failure kind to a user-facing localized message.
type Catalog interface {
	Message(kind Kind) string
}

// Error is a planning failure. Message carries the localized catalog
// text; Cause carries the underlying error for fetch failures.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the failure kind of err, or "" if err is not a
// planning failure.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
