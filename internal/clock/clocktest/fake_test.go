package clocktest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/virtuallist/internal/clock/clocktest"
)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clocktest.NewFake(start)

	var fired []string
	clk.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "b") })
	clk.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	late := clk.AfterFunc(time.Second, func() { fired = append(fired, "late") })

	clk.Advance(250 * time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, start.Add(250*time.Millisecond), clk.Now())
	assert.Equal(t, 1, clk.Pending())

	assert.True(t, late.Stop())
	assert.False(t, late.Stop())
	clk.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
}

func TestFake_TimerScheduledFromCallback(t *testing.T) {
	clk := clocktest.NewFake(time.Unix(0, 0))

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			clk.AfterFunc(10*time.Millisecond, tick)
		}
	}
	clk.AfterFunc(10*time.Millisecond, tick)

	clk.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, count)

	clk.Advance(10 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, clk.Pending())
}
