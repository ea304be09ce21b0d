package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_ClosedSuccessKeepsPrimary(t *testing.T) {
	b := New("test")
	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.Equal(t, StateChange{}, change)
}

func TestBreaker_IgnoresNonPositiveThresholds(t *testing.T) {
	b := New("test", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for i := 0; i < defaultFailureThreshold-1; i++ {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}
