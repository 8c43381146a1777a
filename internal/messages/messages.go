// Package messages supplies the localized user-facing text for planning
// failures. The planning core refers to failures only by kind; every
// presentation string lives here.
package messages

import "github.com/alex-user-go/tripplan/internal/trip"

// Catalog maps failure kinds to localized messages.
type Catalog struct {
	table map[trip.Kind]string
}

// Message returns the localized text for a failure kind. Unknown kinds
// fall back to the kind key itself so a missing entry is visible instead
// of silent.
func (c *Catalog) Message(kind trip.Kind) string {
	if msg, ok := c.table[kind]; ok {
		return msg
	}
	return string(kind)
}

var english = map[trip.Kind]string{
	trip.KindForecastFetch: "could not retrieve the weather forecast",
	trip.KindNoTripFound:   "no trip satisfies the requested weather",
}

var spanish = map[trip.Kind]string{
	trip.KindForecastFetch: "no se pudo obtener el pronóstico del tiempo",
	trip.KindNoTripFound:   "ningún viaje cumple el clima solicitado",
}

// ForLocale returns the catalog for a locale tag ("en", "es"). Unknown
// locales get English.
func ForLocale(locale string) *Catalog {
	switch locale {
	case "es":
		return &Catalog{table: spanish}
	default:
		return &Catalog{table: english}
	}
}
