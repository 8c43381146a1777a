package trip

// RequestBuilder accumulates per-day condition requirements and the
// consecutive-use cap. Configuration only; no validation happens here.
// Impossible requirements surface as a failed search, not a builder
// error.
type RequestBuilder struct {
	sequence []ConditionSet
	maxRun   int
}

// NewRequestBuilder creates an empty builder with an unbounded cap.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// Require appends days copies of the condition set to the requirement
// sequence. Day order is the order of Require calls.
func (b *RequestBuilder) Require(set ConditionSet, days int) *RequestBuilder {
	for i := 0; i < days; i++ {
		b.sequence = append(b.sequence, set)
	}
	return b
}

// Sunny appends days sunny days.
func (b *RequestBuilder) Sunny(days int) *RequestBuilder {
	return b.Require(Sunny, days)
}

// Cloudy appends days cloudy days.
func (b *RequestBuilder) Cloudy(days int) *RequestBuilder {
	return b.Require(Cloudy, days)
}

// MaxRun sets the maximum consecutive days any single location may be
// used. Last call wins. Values below 1 mean unbounded.
func (b *RequestBuilder) MaxRun(days int) *RequestBuilder {
	if days < 1 {
		days = 0
	}
	b.maxRun = days
	return b
}

// Build returns the accumulated requirements as an immutable Request.
// The builder can keep being modified afterwards without affecting the
// returned value.
func (b *RequestBuilder) Build() Request {
	sequence := make([]ConditionSet, len(b.sequence))
	copy(sequence, b.sequence)
	return Request{Sequence: sequence, MaxRun: b.maxRun}
}
