package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

// scriptedSource replays a fixed sequence of reads, then repeats the last.
type scriptedSource struct {
	mu    sync.Mutex
	reads []read
	calls int
}

type read struct {
	present bool
	err     error
}

func (s *scriptedSource) TokenPresent(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.reads[min(s.calls, len(s.reads)-1)]
	s.calls++
	return r.present, r.err
}

func TestStartWatcherReportsChanges(t *testing.T) {
	src := &scriptedSource{reads: []read{
		{present: false},
		{present: false},
		{present: true},
		{present: true},
		{present: false},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan bool, 8)
	StartWatcher(ctx, src, time.Millisecond, func(present bool) { got <- present })

	want := []bool{false, true, false}
	for i, w := range want {
		select {
		case v := <-got:
			if v != w {
				t.Fatalf("notification %d = %v, want %v", i, v, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d", i)
		}
	}

	select {
	case v := <-got:
		t.Fatalf("unexpected extra notification %v", v)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStartWatcherSkipsErrors(t *testing.T) {
	src := &scriptedSource{reads: []read{
		{err: errors.New("database is locked")},
		{present: true},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan bool, 4)
	StartWatcher(ctx, src, time.Millisecond, func(present bool) { got <- present })

	select {
	case v := <-got:
		if !v {
			t.Fatalf("first notification = false, want true")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not recover after an error")
	}
}
