package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickCounts(t *testing.T) {
	src := NewTick(time.Millisecond)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		ev, err := src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, EventTick, ev.Name)
		assert.Equal(t, []string{"1", "2", "3"}[want-1], ev.Data)
	}
}

func TestTickIndependentInstances(t *testing.T) {
	a := NewTick(time.Millisecond)
	b := NewTick(time.Millisecond)
	ctx := context.Background()

	_, err := a.Next(ctx)
	require.NoError(t, err)
	_, err = a.Next(ctx)
	require.NoError(t, err)

	ev, err := b.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", ev.Data)
}

func TestNextStopsOnCancel(t *testing.T) {
	sources := map[string]Source{
		"tick":  NewTick(time.Hour),
		"clock": NewClock(time.Hour),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := src.Next(ctx)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestClockEvent(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		wantName string
		wantData string
	}{
		{
			name:     "top of minute",
			at:       time.Date(2024, 5, 1, 13, 7, 0, 0, time.Local),
			wantName: EventMinute,
			wantData: `{"hour": 13, "minute": 7, "second": 0}`,
		},
		{
			name:     "mid minute",
			at:       time.Date(2024, 5, 1, 9, 59, 42, 0, time.Local),
			wantName: EventSecond,
			wantData: `{"hour": 9, "minute": 59, "second": 42}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := clockEvent(tt.at)
			assert.Equal(t, tt.wantName, ev.Name)
			assert.Equal(t, tt.wantData, ev.Data)
			assert.True(t, json.Valid([]byte(ev.Data)))
		})
	}
}

func TestClockNext(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	src := NewClock(time.Millisecond)
	src.now = func() time.Time { return fixed }

	ev, err := src.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventMinute, ev.Name)
	assert.Equal(t, `{"hour": 0, "minute": 0, "second": 0}`, ev.Data)
}

func TestFactory(t *testing.T) {
	f := Factory{Interval: time.Millisecond}

	src, ok := f.New("tick")
	require.True(t, ok)
	assert.IsType(t, &Tick{}, src)

	src, ok = f.New("clock")
	require.True(t, ok)
	assert.IsType(t, &Clock{}, src)

	_, ok = f.New("password")
	assert.False(t, ok)

	first, _ := f.New("tick")
	second, _ := f.New("tick")
	assert.NotSame(t, first, second)
}
