package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesBurstIntoTrailingCall(t *testing.T) {
	d := New(20 * time.Millisecond)

	var calls int32
	var last atomic.Value
	for _, term := range []string{"m", "mi", "mil", "milk"} {
		term := term
		d.Call(func() {
			atomic.AddInt32(&calls, 1)
			last.Store(term)
		})
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "milk", last.Load())
}

func TestDebouncer_StopCancelsPendingCall(t *testing.T) {
	d := New(30 * time.Millisecond)

	var calls int32
	d.Call(func() { atomic.AddInt32(&calls, 1) })

	assert.True(t, d.Stop())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, d.Stop())
}

func TestDebouncer_NonPositiveWaitUsesDefault(t *testing.T) {
	d := New(0)
	assert.Equal(t, DefaultWait, d.wait)
}
