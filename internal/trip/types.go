package trip

import "github.com/alex-user-go/tripplan/internal/forecast"

// ConditionSet is the set of condition codes accepted for one trip day.
type ConditionSet map[forecast.Condition]bool

// NewConditionSet builds a ConditionSet from the given codes.
func NewConditionSet(conditions ...forecast.Condition) ConditionSet {
	set := make(ConditionSet, len(conditions))
	for _, c := range conditions {
		set[c] = true
	}
	return set
}

// Contains reports whether the set accepts the condition.
func (s ConditionSet) Contains(c forecast.Condition) bool {
	return s[c]
}

// Predefined day requirements. Treated as immutable.
var (
	Sunny  = NewConditionSet(forecast.Clear, forecast.PartlyCloudy)
	Cloudy = NewConditionSet(forecast.Cloudy, forecast.Overcast)
)

// Request is an immutable trip requirement: one accepted condition set
// per trip day, plus a cap on consecutive days at a single location.
// MaxRun == 0 means unbounded.
type Request struct {
	Sequence []ConditionSet
	MaxRun   int
}

// Days returns the requested trip length.
func (r Request) Days() int {
	return len(r.Sequence)
}

// Stay is one planned day: the chosen location and the 1-based day number.
type Stay struct {
	LocationID int `json:"location_id"`
	Day        int `json:"day"`
}

// Plan is a complete day-indexed assignment, one Stay per trip day with
// strictly increasing day numbers.
type Plan []Stay
