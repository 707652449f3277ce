package checkout

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_RunsOnlyLastTask(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var first, last atomic.Int32
	d.Schedule(func() { first.Add(1) })
	d.Schedule(func() { last.Add(1) })

	assert.Eventually(t, func() bool { return last.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, first.Load())
	assert.Equal(t, int32(1), last.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	assert.False(t, d.Cancel())

	var ran atomic.Bool
	d.Schedule(func() { ran.Store(true) })
	assert.True(t, d.Cancel())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
}
