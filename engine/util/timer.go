package util

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

type TimerState struct {
	name         string
	lastDuration float64

	totalDuration  float64
	executionCount int64

	minDuration float64
	maxDuration float64
}

func (t TimerState) AverageDuration() float64 {
	if t.executionCount == 0 {
		return 0
	}
	return t.totalDuration / float64(t.executionCount)
}

func (t TimerState) Count() int64 {
	return t.executionCount
}

func (t TimerState) String() string {
	return fmt.Sprintf("%s n: %d last: %.2fms, avg: %.2fms, min: %.2fms, max: %.2fms", t.name, t.executionCount, t.lastDuration, t.AverageDuration(), t.minDuration, t.maxDuration)
}

// Timer collects named durations. Start may be called from any goroutine.
type Timer struct {
	mu         sync.Mutex
	states     map[string]*TimerState
	timerNames []string
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
	}
}

// GetState returns a snapshot of the named state.
func (t *Timer) GetState(name string) (TimerState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[name]
	if !ok {
		return TimerState{}, false
	}
	return *state, true
}

func (t *Timer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var sb strings.Builder
	for _, name := range t.timerNames {
		sb.WriteString(t.states[name].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Start begins a measurement. The returned func stops it and returns the duration in ms.
func (t *Timer) Start(name string) func() float64 {
	if t == nil {
		return func() float64 { return 0 }
	}
	start := time.Now()
	return func() float64 {
		durationInMS := float64(time.Since(start).Microseconds()) / 1000.0
		t.record(name, durationInMS)
		return durationInMS
	}
}

func (t *Timer) record(name string, durationInMS float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[name]
	if !ok {
		t.timerNames = append(t.timerNames, name)
		state = &TimerState{
			name:        name,
			minDuration: math.MaxInt64,
			maxDuration: math.MinInt64,
		}
		t.states[name] = state
	}
	state.lastDuration = durationInMS
	state.totalDuration += durationInMS
	state.executionCount++
	if durationInMS < state.minDuration {
		state.minDuration = durationInMS
	}
	if durationInMS > state.maxDuration {
		state.maxDuration = durationInMS
	}
}
