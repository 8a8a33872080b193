package circuit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_Cycle(t *testing.T) {
	now := time.Unix(0, 0)
	b := New("backend", 2, time.Second)
	b.now = func() time.Time { return now }
	boom := errors.New("boom")

	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
	assert.Equal(t, StateOpen, b.State())

	called := false
	assert.ErrorIs(t, b.Do(func() error { called = true; return nil }), ErrOpen)
	assert.False(t, called)

	t.Run("half open trial failure reopens", func(t *testing.T) {
		now = now.Add(time.Second)
		assert.ErrorIs(t, b.Do(func() error { return boom }), boom)
		assert.Equal(t, StateOpen, b.State())
	})

	t.Run("half open trial success closes", func(t *testing.T) {
		now = now.Add(2 * time.Second)
		assert.NoError(t, b.Do(func() error { return nil }))
		assert.Equal(t, StateClosed, b.State())
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "HALF-OPEN", StateHalfOpen.String())
	assert.Equal(t, "UNKNOWN", State(9).String())
}
