package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/tripplan/internal/forecast"
)

func TestRequestBuilder_AppendsInCallOrder(t *testing.T) {
	req := NewRequestBuilder().Sunny(2).Cloudy(1).Sunny(1).Build()

	require.Equal(t, 4, req.Days())
	assert.True(t, req.Sequence[0].Contains(forecast.Clear))
	assert.True(t, req.Sequence[1].Contains(forecast.PartlyCloudy))
	assert.True(t, req.Sequence[2].Contains(forecast.Overcast))
	assert.False(t, req.Sequence[2].Contains(forecast.Clear))
	assert.True(t, req.Sequence[3].Contains(forecast.Clear))
}

func TestRequestBuilder_RequireIsSetAgnostic(t *testing.T) {
	stormy := NewConditionSet("rain", "thunderstorm")
	req := NewRequestBuilder().Require(stormy, 2).Build()

	require.Equal(t, 2, req.Days())
	assert.True(t, req.Sequence[0].Contains("rain"))
	assert.True(t, req.Sequence[1].Contains("thunderstorm"))
	assert.False(t, req.Sequence[0].Contains(forecast.Clear))
}

func TestRequestBuilder_MaxRunLastCallWins(t *testing.T) {
	req := NewRequestBuilder().Sunny(1).MaxRun(5).MaxRun(2).Build()
	assert.Equal(t, 2, req.MaxRun)
}

func TestRequestBuilder_DefaultsToUnbounded(t *testing.T) {
	assert.Equal(t, 0, NewRequestBuilder().Sunny(1).Build().MaxRun)
	assert.Equal(t, 0, NewRequestBuilder().Sunny(1).MaxRun(0).Build().MaxRun)
	assert.Equal(t, 0, NewRequestBuilder().Sunny(1).MaxRun(-3).Build().MaxRun)
}

func TestRequestBuilder_ChainingReturnsSameBuilder(t *testing.T) {
	b := NewRequestBuilder()
	assert.Same(t, b, b.Sunny(1))
	assert.Same(t, b, b.Cloudy(1))
	assert.Same(t, b, b.Require(Sunny, 1))
	assert.Same(t, b, b.MaxRun(2))
}

func TestRequestBuilder_BuildIsImmutableSnapshot(t *testing.T) {
	b := NewRequestBuilder().Sunny(2)
	req := b.Build()

	b.Cloudy(3).MaxRun(1)

	assert.Equal(t, 2, req.Days())
	assert.Equal(t, 0, req.MaxRun)
	assert.Equal(t, 5, b.Build().Days())
}

func TestRequestBuilder_ZeroDaysAppendsNothing(t *testing.T) {
	req := NewRequestBuilder().Sunny(0).Cloudy(0).Build()
	assert.Equal(t, 0, req.Days())
}
