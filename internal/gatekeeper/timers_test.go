package gatekeeper

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerRegistry_FiresOnce(t *testing.T) {
	clk := clock.NewMock()
	reg := NewTimerRegistry(clk)

	var fired atomic.Int32
	reg.Schedule("a", time.Minute, func() { fired.Add(1) })

	deadline, ok := reg.Deadline("a")
	require.True(t, ok)
	assert.Equal(t, clk.Now().Add(time.Minute), deadline)

	clk.Add(59 * time.Second)
	assert.Equal(t, int32(0), fired.Load())

	clk.Add(time.Second)
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, reg.Len())

	clk.Add(time.Hour)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestTimerRegistry_Cancel(t *testing.T) {
	clk := clock.NewMock()
	reg := NewTimerRegistry(clk)

	var fired atomic.Int32
	reg.Schedule("a", time.Minute, func() { fired.Add(1) })

	assert.True(t, reg.Cancel("a"))
	assert.False(t, reg.Cancel("a"))
	assert.False(t, reg.Cancel("missing"))

	clk.Add(2 * time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestTimerRegistry_ScheduleReplaces(t *testing.T) {
	clk := clock.NewMock()
	reg := NewTimerRegistry(clk)

	var first, second atomic.Int32
	reg.Schedule("a", time.Minute, func() { first.Add(1) })
	reg.Schedule("a", 2*time.Minute, func() { second.Add(1) })
	assert.Equal(t, 1, reg.Len())

	clk.Add(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())

	clk.Add(time.Minute)
	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestTimerRegistry_Stop(t *testing.T) {
	clk := clock.NewMock()
	reg := NewTimerRegistry(clk)

	var fired atomic.Int32
	for _, key := range []string{"a", "b", "c"} {
		reg.Schedule(key, time.Second, func() { fired.Add(1) })
	}
	require.Equal(t, 3, reg.Len())

	reg.Stop()
	assert.Equal(t, 0, reg.Len())

	clk.Add(time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
